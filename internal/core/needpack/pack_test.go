package needpack

import "testing"

func TestLoadEmbedded(t *testing.T) {
	p, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Version != 1 {
		t.Fatalf("version = %d, want 1", p.Version)
	}
	if len(p.Keywords) == 0 || len(p.Objectives) == 0 || len(p.Geos) == 0 {
		t.Fatalf("pack tables empty: %d keywords, %d objectives, %d geos",
			len(p.Keywords), len(p.Objectives), len(p.Geos))
	}
	for i := 1; i < len(p.Keywords); i++ {
		if p.Keywords[i-1].Trigger >= p.Keywords[i].Trigger {
			t.Fatalf("keywords not sorted at %d: %q >= %q", i, p.Keywords[i-1].Trigger, p.Keywords[i].Trigger)
		}
	}
}

func TestParseRejectsBadVersion(t *testing.T) {
	if _, err := Parse([]byte(`{"version": 2}`)); err == nil {
		t.Fatal("expected version error")
	}
}

func TestParseRejectsEmptyTrigger(t *testing.T) {
	in := `{"version":1,"keywords":[{"trigger":"","keyword":"x"}]}`
	if _, err := Parse([]byte(in)); err == nil {
		t.Fatal("expected trigger error")
	}
}

func TestParseDedupesGeoAliases(t *testing.T) {
	in := `{
	  "version": 1,
	  "geos": [
	    {"names": ["nyc", "NYC"], "canonical": "New York, NY"},
	    {"names": ["nyc"], "canonical": "Somewhere Else"}
	  ]
	}`
	p, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(p.Geos) != 1 {
		t.Fatalf("geos = %d, want 1 after dedupe", len(p.Geos))
	}
	if p.Geos[0].Canonical != "New York, NY" {
		t.Fatalf("first alias wins, got %q", p.Geos[0].Canonical)
	}
}

func TestObjectiveOrderPreserved(t *testing.T) {
	in := `{
	  "version": 1,
	  "objectives": [
	    {"trigger": "zzz", "objective": "hire"},
	    {"trigger": "aaa", "objective": "raise"}
	  ]
	}`
	p, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Objectives[0].Trigger != "zzz" || p.Objectives[1].Trigger != "aaa" {
		t.Fatalf("objective order changed: %+v", p.Objectives)
	}
}
