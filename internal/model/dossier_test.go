package model

import (
	"os"
	"path/filepath"
	"testing"
)

func validDossier() *Dossier {
	return &Dossier{
		ArticleID: "a1",
		Claims: []AtomicClaim{
			{ID: "c1", Centrality: CentralityHigh, Harm: HarmLow},
			{ID: "c2", Centrality: CentralityLow, Harm: HarmLow, DependsOn: []string{"c1"}},
		},
		Verdicts: []ClaimVerdict{
			{ClaimID: "c1", TruthPercentage: 80, Confidence: 70},
		},
	}
}

func TestDossierValidate(t *testing.T) {
	if err := validDossier().Validate(); err != nil {
		t.Errorf("valid dossier rejected: %v", err)
	}
}

func TestDossierValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Dossier)
	}{
		{"empty claim ID", func(d *Dossier) { d.Claims[0].ID = "" }},
		{"duplicate claim ID", func(d *Dossier) { d.Claims[1].ID = "c1" }},
		{"verdict for nonexistent claim", func(d *Dossier) { d.Verdicts[0].ClaimID = "ghost" }},
		{"dependency on nonexistent claim", func(d *Dossier) { d.Claims[1].DependsOn = []string{"ghost"} }},
	}

	for _, tt := range tests {
		d := validDossier()
		tt.mutate(d)
		if err := d.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestDossierValidate_DataQualityIsNotAnError(t *testing.T) {
	d := validDossier()
	d.Claims[0].Centrality = ""
	d.Claims[0].Harm = "nonsense"
	d.Verdicts[0].ThesisRelevance = ""

	if err := d.Validate(); err != nil {
		t.Errorf("data-quality problems must degrade, not fail: %v", err)
	}
}

func TestLoadDossier(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "d.json")

	content := `{
	  "article_id": "a1",
	  "claims": [{"id": "c1", "centrality": "high", "harm_potential": "low"}],
	  "verdicts": [{"claim_id": "c1", "truth_percentage": 80, "confidence": 70}],
	  "tallies": {"c1": {"supporting": 2, "contradicting": 1}},
	  "sources": {"c1": ["https://example.org/a"]}
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	d, err := LoadDossier(path)
	if err != nil {
		t.Fatalf("LoadDossier: %v", err)
	}
	if d.ArticleID != "a1" || len(d.Claims) != 1 {
		t.Errorf("dossier = %+v", d)
	}
	if d.Tallies["c1"].Supporting != 2 {
		t.Errorf("tally = %+v, want supporting 2", d.Tallies["c1"])
	}
}

func TestLoadDossier_ValidationRuns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "d.json")

	content := `{"article_id": "a1", "claims": [{"id": "c1"}], "verdicts": [{"claim_id": "ghost"}]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := LoadDossier(path); err == nil {
		t.Error("LoadDossier must reject structurally broken dossiers")
	}
}

func TestVerdictFor(t *testing.T) {
	d := validDossier()

	if v := d.VerdictFor("c1"); v == nil || v.TruthPercentage != 80 {
		t.Errorf("VerdictFor(c1) = %+v", v)
	}
	if v := d.VerdictFor("c2"); v != nil {
		t.Errorf("VerdictFor(c2) = %+v, want nil for unscored claim", v)
	}
}

func TestFilterOutcomePassed(t *testing.T) {
	all := FilterOutcome{PassedFidelity: true, PassedSpecificity: true, PassedOpinion: true}
	if !all.Passed() {
		t.Error("all checks passed should report Passed")
	}

	partial := FilterOutcome{PassedFidelity: true}
	if partial.Passed() {
		t.Error("a single failed check should report not Passed")
	}
}
