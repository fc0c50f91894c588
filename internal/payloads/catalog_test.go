package payloads

import (
	"testing"
)

func TestForProfileSafe(t *testing.T) {
	catalog, err := ForProfile("safe")
	if err != nil {
		t.Fatalf("ForProfile(safe) returned error: %v", err)
	}

	if _, ok := catalog[CategoryTraversal]; ok {
		t.Error("safe profile should exclude traversal payloads")
	}

	for _, category := range []string{CategorySQLi, CategoryXSS, CategoryIDORNumeric, CategoryCommandInjection} {
		if len(catalog[category]) == 0 {
			t.Errorf("safe profile missing category %s", category)
		}
	}
}

func TestForProfileLabAndAll(t *testing.T) {
	for _, profile := range []string{"lab", "all"} {
		catalog, err := ForProfile(profile)
		if err != nil {
			t.Fatalf("ForProfile(%s) returned error: %v", profile, err)
		}
		if len(catalog[CategoryTraversal]) == 0 {
			t.Errorf("%s profile should include traversal payloads", profile)
		}
	}
}

func TestForProfileUnknown(t *testing.T) {
	if _, err := ForProfile("aggressive"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestIsLabOnly(t *testing.T) {
	tests := []struct {
		name     string
		category string
		payload  Payload
		want     bool
	}{
		{"traversal always lab-only", CategoryTraversal, Payload{Value: "../../etc/passwd", Note: "anything"}, true},
		{"note flags lab-only", CategorySQLi, Payload{Value: "x", Note: "lab-only tautology"}, true},
		{"note flags destructive", CategorySQLi, Payload{Value: "x", Note: "destructive drop"}, true},
		{"plain safe payload", CategorySQLi, Payload{Value: "' OR '1'='1", Note: "safe SQL injection test"}, false},
		{"idor directive", CategoryIDORNumeric, Payload{Kind: KindAdjacent, Delta: 1, Note: "IDOR adjacent test"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLabOnly(tt.category, tt.payload); got != tt.want {
				t.Errorf("IsLabOnly(%s) = %v, want %v", tt.category, got, tt.want)
			}
		})
	}
}

func TestCategoriesDeterministic(t *testing.T) {
	catalog, err := ForProfile("all")
	if err != nil {
		t.Fatalf("ForProfile failed: %v", err)
	}

	first := catalog.Categories()
	for i := 0; i < 10; i++ {
		again := catalog.Categories()
		if len(again) != len(first) {
			t.Fatalf("category count changed between calls: %d vs %d", len(again), len(first))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("category order changed between calls: %v vs %v", again, first)
			}
		}
	}

	if first[0] != CategorySQLi {
		t.Errorf("expected sqli first, got %s", first[0])
	}
}

func TestCategoriesSortsUnknownExtras(t *testing.T) {
	catalog := Catalog{
		"zzz_custom": {{Value: "a"}},
		"aaa_custom": {{Value: "b"}},
		CategoryXSS:  {{Value: "<x>"}},
		CategorySQLi: {{Value: "'"}},
	}

	got := catalog.Categories()
	want := []string{CategorySQLi, CategoryXSS, "aaa_custom", "zzz_custom"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestDefaultCatalogDirectives(t *testing.T) {
	for i, p := range defaultCatalog[CategoryIDORNumeric] {
		switch p.Kind {
		case KindAdjacent, KindLarge, KindNegative:
		default:
			t.Errorf("idor_numeric[%d]: unexpected kind %q", i, p.Kind)
		}
		if p.Value != "" {
			t.Errorf("idor_numeric[%d]: directive should not carry a literal payload", i)
		}
	}
}
