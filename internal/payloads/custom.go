package payloads

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadCustom reads a user-supplied payload catalog from a YAML file. The
// file maps category names to payload lists in the same shape as the
// built-in catalog:
//
//	sqli:
//	  - payload: "' OR '1'='1"
//	    note: custom tautology
//	idor_numeric:
//	  - kind: adjacent
//	    delta: 5
//	    note: wider adjacent probe
func LoadCustom(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read custom payloads: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse custom payloads: %w", err)
	}

	for category, list := range catalog {
		if len(list) == 0 {
			return nil, fmt.Errorf("custom payload category %q is empty", category)
		}
		for i, p := range list {
			if category == CategoryIDORNumeric || p.Kind != "" {
				switch p.Kind {
				case KindAdjacent, KindLarge, KindNegative:
				default:
					return nil, fmt.Errorf("custom payload %s[%d]: unknown directive kind %q", category, i, p.Kind)
				}
			} else if p.Value == "" {
				return nil, fmt.Errorf("custom payload %s[%d]: missing payload value", category, i)
			}
		}
	}

	return catalog, nil
}

// Merge overlays a custom catalog onto a base catalog. Categories present
// in the custom catalog replace the base category wholesale; other base
// categories are kept untouched.
func Merge(base, custom Catalog) Catalog {
	merged := make(Catalog, len(base)+len(custom))
	for category, list := range base {
		merged[category] = list
	}
	for category, list := range custom {
		merged[category] = list
	}
	return merged
}
