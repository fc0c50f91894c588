package payloads

import (
	"os"
	"path/filepath"
	"testing"
)

func writePayloadFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "payloads.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write payload file: %v", err)
	}
	return path
}

func TestLoadCustom(t *testing.T) {
	path := writePayloadFile(t, `
sqli:
  - payload: "' OR 'a'='a"
    note: custom tautology
xss:
  - payload: "<marquee onstart=alert(1)>"
idor_numeric:
  - kind: adjacent
    delta: 5
    note: wider adjacent probe
`)

	catalog, err := LoadCustom(path)
	if err != nil {
		t.Fatalf("LoadCustom failed: %v", err)
	}

	if len(catalog[CategorySQLi]) != 1 || catalog[CategorySQLi][0].Value != "' OR 'a'='a" {
		t.Errorf("unexpected sqli payloads: %+v", catalog[CategorySQLi])
	}
	if got := catalog[CategoryIDORNumeric][0]; got.Kind != KindAdjacent || got.Delta != 5 {
		t.Errorf("unexpected idor directive: %+v", got)
	}
}

func TestLoadCustomRejectsBadDirective(t *testing.T) {
	path := writePayloadFile(t, `
idor_numeric:
  - kind: exponential
    delta: 2
`)

	if _, err := LoadCustom(path); err == nil {
		t.Error("expected error for unknown directive kind")
	}
}

func TestLoadCustomRejectsEmptyCategory(t *testing.T) {
	path := writePayloadFile(t, "sqli: []\n")

	if _, err := LoadCustom(path); err == nil {
		t.Error("expected error for empty category")
	}
}

func TestLoadCustomRejectsMissingValue(t *testing.T) {
	path := writePayloadFile(t, `
sqli:
  - note: payload forgotten
`)

	if _, err := LoadCustom(path); err == nil {
		t.Error("expected error for payload without a value")
	}
}

func TestLoadCustomMissingFile(t *testing.T) {
	if _, err := LoadCustom(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMerge(t *testing.T) {
	base := Catalog{
		CategorySQLi: {{Value: "base1"}, {Value: "base2"}},
		CategoryXSS:  {{Value: "basexss"}},
	}
	custom := Catalog{
		CategorySQLi: {{Value: "custom1"}},
		"ssti":       {{Value: "{{7*7}}"}},
	}

	merged := Merge(base, custom)

	if len(merged[CategorySQLi]) != 1 || merged[CategorySQLi][0].Value != "custom1" {
		t.Errorf("custom category should replace base wholesale: %+v", merged[CategorySQLi])
	}
	if len(merged[CategoryXSS]) != 1 {
		t.Error("untouched base category should survive the merge")
	}
	if len(merged["ssti"]) != 1 {
		t.Error("new custom category should be present")
	}
	if len(base[CategorySQLi]) != 2 {
		t.Error("merge must not mutate the base catalog")
	}
}
