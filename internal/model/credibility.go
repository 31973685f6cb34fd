package model

import "time"

// SourceCredibilityRecord is the durable cache entry for one domain.
// Created on cache miss via external evaluation, read many times, expires
// after its TTL. An administrator may overwrite a record manually; the
// engine only ever reads and (re)creates records.
type SourceCredibilityRecord struct {
	Domain            string    `json:"domain"`
	Score             float64   `json:"score"`      // 0.0-1.0
	Confidence        float64   `json:"confidence"` // 0.0-1.0
	ConsensusAchieved bool      `json:"consensus_achieved"`
	EvaluatedAt       time.Time `json:"evaluated_at"`
	TTLDays           int       `json:"ttl_days"`
}

// Expired reports whether the record is stale relative to now
func (r *SourceCredibilityRecord) Expired(now time.Time) bool {
	if r.TTLDays <= 0 {
		return false
	}
	return now.After(r.EvaluatedAt.AddDate(0, 0, r.TTLDays))
}
