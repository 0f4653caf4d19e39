package keyword

import (
	"errors"
	"testing"

	"github.com/trinetra-labs/trinetra/internal/domain"
)

func testGroups() []Group {
	return []Group{
		{
			Name:       "drug_names",
			Weight:     0.30,
			HighSignal: true,
			Terms:      []string{"mdma", "pot", "crystal meth"},
		},
		{
			Name:   "sales_terms",
			Weight: 0.15,
			Terms:  []string{"home delivery", "available"},
		},
		{
			Name:     "symbols",
			Weight:   0.10,
			Symbolic: true,
			Terms:    []string{"💊"},
		},
	}
}

func mustRegistry(t *testing.T, groups []Group) *Registry {
	t.Helper()
	r, err := NewRegistry(groups)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

func TestNewRegistry_Validation(t *testing.T) {
	cases := []struct {
		name   string
		groups []Group
	}{
		{"no groups", nil},
		{"empty name", []Group{{Name: "", Weight: 0.1, Terms: []string{"x"}}}},
		{"duplicate name", []Group{
			{Name: "a", Weight: 0.1, Terms: []string{"x"}},
			{Name: "a", Weight: 0.2, Terms: []string{"y"}},
		}},
		{"weight above one", []Group{{Name: "a", Weight: 1.5, Terms: []string{"x"}}}},
		{"negative weight", []Group{{Name: "a", Weight: -0.1, Terms: []string{"x"}}}},
		{"no terms anywhere", []Group{{Name: "a", Weight: 0.1, Terms: []string{" ", ""}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewRegistry(tc.groups); !errors.Is(err, domain.ErrInvalidConfig) {
				t.Errorf("got %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLookup_WordBoundaries(t *testing.T) {
	r := mustRegistry(t, testGroups())

	if got := r.Lookup("I bought a new teapot yesterday"); len(got) != 0 {
		t.Errorf("teapot must not match pot, got %v", got)
	}

	matches := r.Lookup("selling pot tonight")
	if len(matches) != 1 || matches[0].Term != "pot" {
		t.Fatalf("expected single pot match, got %v", matches)
	}
	if matches[0].Group != "drug_names" || !matches[0].HighSignal {
		t.Errorf("match metadata wrong: %+v", matches[0])
	}
}

func TestLookup_PhrasesMatchAsSubstrings(t *testing.T) {
	r := mustRegistry(t, testGroups())

	matches := r.Lookup("got crystal meth in stock")
	terms := make(map[string]bool, len(matches))
	for _, m := range matches {
		terms[m.Term] = true
	}
	// "crystal meth" should hit as a phrase; "meth" is not in this
	// registry so only the phrase fires.
	if !terms["crystal meth"] {
		t.Errorf("expected crystal meth match, got %v", matches)
	}
}

func TestLookup_CaseInsensitiveAndOncePerTerm(t *testing.T) {
	r := mustRegistry(t, testGroups())

	matches := r.Lookup("MDMA mdma MdMa available AVAILABLE")
	if len(matches) != 2 {
		t.Fatalf("expected each term once, got %v", matches)
	}
	if matches[0].Term != "mdma" || matches[1].Term != "available" {
		t.Errorf("unexpected match order: %v", matches)
	}
}

func TestLookup_SymbolicTerms(t *testing.T) {
	r := mustRegistry(t, testGroups())

	matches := r.Lookup("fresh stuff 💊 ping me")
	if len(matches) != 1 || matches[0].Group != "symbols" || !matches[0].Symbolic {
		t.Errorf("expected symbolic match, got %v", matches)
	}
}

func TestLookup_EmptyText(t *testing.T) {
	r := mustRegistry(t, testGroups())
	if got := r.Lookup(""); got != nil {
		t.Errorf("empty text: got %v, want nil", got)
	}
}

func TestNewRegistry_DropsDuplicateTerms(t *testing.T) {
	r := mustRegistry(t, []Group{
		{Name: "a", Weight: 0.1, Terms: []string{"weed", "Weed", " weed "}},
	})

	matches := r.Lookup("weed here")
	if len(matches) != 1 {
		t.Errorf("duplicate terms must collapse, got %v", matches)
	}
}

func TestGroups_Order(t *testing.T) {
	r := mustRegistry(t, testGroups())

	got := r.Groups()
	want := []string{"drug_names", "sales_terms", "symbols"}
	if len(got) != len(want) {
		t.Fatalf("groups: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("groups[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDefaultGroups_CompileAndMatch(t *testing.T) {
	r := mustRegistry(t, DefaultGroups())

	matches := r.Lookup("MDMA available, home delivery, cash on delivery")
	groups := make(map[string]int)
	for _, m := range matches {
		groups[m.Group]++
	}
	if groups["drug_names"] == 0 {
		t.Error("expected a drug_names hit")
	}
	if groups["sales_terms"] < 2 {
		t.Errorf("expected at least two sales_terms hits, got %d", groups["sales_terms"])
	}
}
