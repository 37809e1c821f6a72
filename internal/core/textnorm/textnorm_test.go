package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	n := New()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercases", "Packaging Startup in NYC", "packaging startup in nyc"},
		{"collapses whitespace", "  need \t an\n\n investor  ", "need an investor"},
		{"folds fullwidth", "ＰＡＣＫＡＧＩＮＧ", "packaging"},
		{"strips zero width", "pack​ag‍ing", "packaging"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := n.Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeInvalidUTF8(t *testing.T) {
	n := New()
	in := "pack\xffaging"
	if got := n.Normalize(in); got != "packaging" {
		t.Fatalf("Normalize dropped invalid bytes wrong: %q", got)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	n := New()
	in := "Need a SUSTAINABLE  Packaging partner in münchen"
	once := n.Normalize(in)
	twice := n.Normalize(once)
	if once != twice {
		t.Fatalf("not idempotent: %q vs %q", once, twice)
	}
}
