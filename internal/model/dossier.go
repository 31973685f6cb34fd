package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// Dossier is the engine's input document: everything the external
// collaborators (extraction, debate, evidence clustering) produced for one
// article. The engine performs numeric combination only; it never reasons
// over the statements themselves.
type Dossier struct {
	ArticleID string        `json:"article_id"`
	Thesis    string        `json:"thesis,omitempty"`
	Claims    []AtomicClaim `json:"claims"`
	Verdicts  []ClaimVerdict `json:"verdicts"`

	// Tallies holds per-claim boundary tallies from evidence-scope
	// clustering, keyed by claim ID. A missing entry means no boundary
	// data exists for the claim.
	Tallies map[string]BoundaryTally `json:"tallies,omitempty"`

	// Sources maps claim ID to the URLs of the evidence backing it. Empty
	// lists are valid: such claims contribute through their debate-assigned
	// confidence only.
	Sources map[string][]string `json:"sources,omitempty"`

	// DerivativeShare maps claim ID to the proportion [0,1] of derivative
	// (non-primary) evidence backing it.
	DerivativeShare map[string]float64 `json:"derivative_share,omitempty"`

	// Filters holds upstream filter outcomes per claim, consumed by the
	// claim-survival gate. A missing entry means the claim passed.
	Filters map[string]FilterOutcome `json:"filters,omitempty"`
}

// BoundaryTally counts analytical boundaries by evidence direction
type BoundaryTally struct {
	Supporting    int `json:"supporting"`
	Contradicting int `json:"contradicting"`
}

// FilterOutcome records the upstream fidelity/specificity/opinion checks
// for one claim
type FilterOutcome struct {
	PassedFidelity    bool `json:"passed_fidelity"`
	PassedSpecificity bool `json:"passed_specificity"`
	PassedOpinion     bool `json:"passed_opinion"`
}

// Passed reports whether the claim survived all upstream checks
func (f FilterOutcome) Passed() bool {
	return f.PassedFidelity && f.PassedSpecificity && f.PassedOpinion
}

// LoadDossier reads and structurally validates a dossier from a JSON file
func LoadDossier(path string) (*Dossier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dossier: %w", err)
	}

	var d Dossier
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse dossier: %w", err)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}

	return &d, nil
}

// Validate checks the dossier's structural invariants. Data-quality
// problems (missing enums, empty evidence) are not errors — only a verdict
// or dependency referencing a claim that does not exist is.
func (d *Dossier) Validate() error {
	claims := make(map[string]bool, len(d.Claims))
	for _, c := range d.Claims {
		if c.ID == "" {
			return fmt.Errorf("dossier %s: claim with empty ID", d.ArticleID)
		}
		if claims[c.ID] {
			return fmt.Errorf("dossier %s: duplicate claim ID %q", d.ArticleID, c.ID)
		}
		claims[c.ID] = true
	}

	for _, v := range d.Verdicts {
		if !claims[v.ClaimID] {
			return fmt.Errorf("dossier %s: verdict references nonexistent claim %q", d.ArticleID, v.ClaimID)
		}
	}

	for _, c := range d.Claims {
		for _, dep := range c.DependsOn {
			if !claims[dep] {
				return fmt.Errorf("dossier %s: claim %q depends on nonexistent claim %q", d.ArticleID, c.ID, dep)
			}
		}
	}

	return nil
}

// VerdictFor returns the verdict for a claim ID, or nil if none exists
func (d *Dossier) VerdictFor(claimID string) *ClaimVerdict {
	for i := range d.Verdicts {
		if d.Verdicts[i].ClaimID == claimID {
			return &d.Verdicts[i]
		}
	}
	return nil
}
