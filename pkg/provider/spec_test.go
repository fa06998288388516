package provider

import "testing"

func TestSpecs_NLDictionaryCoverage(t *testing.T) {
	for _, spec := range All() {
		if len(spec.NLDictionary) < 30 {
			t.Errorf("%s: NLDictionary has %d entries, want >= 30", spec.Kind, len(spec.NLDictionary))
		}
	}
}

func TestSpecs_BlockListCoversAllCategories(t *testing.T) {
	want := []Category{
		CategoryIdentity, CategorySecrets, CategoryLogging, CategoryNetwork,
		CategoryProject, CategoryCompute, CategoryStorage, CategoryDatabase,
	}
	for _, spec := range All() {
		seen := map[Category]bool{}
		for _, e := range spec.BlockList {
			seen[e.Category] = true
		}
		for _, c := range want {
			if !seen[c] {
				t.Errorf("%s: block-list missing category %s", spec.Kind, c)
			}
		}
	}
}

func TestSpecs_AuthErrorPatternsNonEmpty(t *testing.T) {
	for _, spec := range All() {
		if len(spec.AuthErrorPatterns) == 0 {
			t.Errorf("%s: no auth error patterns", spec.Kind)
		}
	}
}

func TestSpecs_Lookup(t *testing.T) {
	if _, ok := Specs(AWS); !ok {
		t.Error("expected AWS spec")
	}
	if _, ok := Specs(Kind("bogus")); ok {
		t.Error("expected lookup miss for unknown kind")
	}
}
