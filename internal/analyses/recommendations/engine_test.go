package recommendations

import (
	"reflect"
	"testing"
)

func titles(items []Recommendation) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}

func TestGenerateCatalogModeFixedOrder(t *testing.T) {
	got := Generate(Signals{HasProjects: true}, ModeCatalog)
	want := []string{"Quantify Your Impact", "Optimize for Keywords", "Add Professional Links", "Strengthen Action Verbs"}
	if !reflect.DeepEqual(titles(got), want) {
		t.Fatalf("titles = %v, want %v", titles(got), want)
	}
	wantPriorities := []Priority{PriorityHigh, PriorityHigh, PriorityMedium, PriorityMedium}
	for i, rec := range got {
		if rec.Priority != wantPriorities[i] {
			t.Fatalf("priority[%d] = %s, want %s", i, rec.Priority, wantPriorities[i])
		}
		if rec.Order != i+1 {
			t.Fatalf("order[%d] = %d", i, rec.Order)
		}
	}
}

func TestGenerateCatalogModeIgnoresDetectedSignals(t *testing.T) {
	all := Signals{HasQuantifiedResults: true, HasKeywords: true, HasProfessionalLinks: true, HasActionVerbs: true, HasProjects: true}
	if got := Generate(all, ModeCatalog); len(got) != 4 {
		t.Fatalf("expected 4 core recommendations, got %v", titles(got))
	}
}

func TestGenerateCatalogModeAddsProjectsLast(t *testing.T) {
	got := Generate(Signals{}, ModeCatalog)
	if len(got) != 5 {
		t.Fatalf("expected 5 recommendations, got %v", titles(got))
	}
	last := got[4]
	if last.Title != "Add a Projects Section" || last.Priority != PriorityLow {
		t.Fatalf("unexpected last recommendation %+v", last)
	}
}

func TestGenerateGatedMode(t *testing.T) {
	got := Generate(Signals{HasQuantifiedResults: true, HasKeywords: true, HasProjects: true}, ModeGated)
	want := []string{"Add Professional Links", "Strengthen Action Verbs"}
	if !reflect.DeepEqual(titles(got), want) {
		t.Fatalf("titles = %v, want %v", titles(got), want)
	}
}

func TestGenerateGatedModeFallback(t *testing.T) {
	all := Signals{HasQuantifiedResults: true, HasKeywords: true, HasProfessionalLinks: true, HasActionVerbs: true, HasProjects: true}
	got := Generate(all, ModeGated)
	if len(got) != 1 || got[0].Title != "Optimize for Keywords" {
		t.Fatalf("expected keyword fallback, got %v", titles(got))
	}
}

func TestGenerateDeterminism(t *testing.T) {
	first := Generate(Signals{HasKeywords: true}, ModeCatalog)
	second := Generate(Signals{HasKeywords: true}, ModeCatalog)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected deterministic recommendations")
	}
	first[0].Title = "mutated"
	if Generate(Signals{HasKeywords: true}, ModeCatalog)[0].Title == "mutated" {
		t.Fatalf("results must not share backing storage")
	}
}

func TestCatalogIDs(t *testing.T) {
	got := Catalog()
	if len(got) != 5 {
		t.Fatalf("expected 5 catalog entries, got %d", len(got))
	}
	if got[0].ID != "quantify-your-impact" {
		t.Fatalf("unexpected id %q", got[0].ID)
	}
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		raw     string
		want    Mode
		wantErr bool
	}{
		{raw: "", want: ModeCatalog},
		{raw: " Catalog ", want: ModeCatalog},
		{raw: "GATED", want: ModeGated},
		{raw: "random", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseMode(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseMode(%q) expected error", tc.raw)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseMode(%q) = %q, %v", tc.raw, got, err)
		}
	}
}
