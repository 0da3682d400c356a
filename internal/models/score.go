// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Range is a current/min/max triplet for one structural metric of a page.
// min <= max is advisory: the auditing model is trusted to respect it and
// the service does not re-validate its arithmetic.
type Range struct {
	Current float64 `json:"current"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Structure groups the structural counts the audit reports for a page.
type Structure struct {
	Words      Range `json:"words"`
	H2         Range `json:"h2"`
	Paragraphs Range `json:"paragraphs"`
	Images     Range `json:"images"`
}

// KeywordMetric tracks one term across the generated page. Difficulty is
// a 0-100 keyword-difficulty estimate and Volume a monthly search-volume
// estimate, both produced by the auditing model.
type KeywordMetric struct {
	Keyword    string  `json:"keyword"`
	Count      float64 `json:"count"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Volume     float64 `json:"volume"`
	Difficulty float64 `json:"difficulty"`
	Status     string  `json:"status"` // low | optimal | high | missing
}

// Score is the structured audit result for one artifact. It is produced
// once per artifact and never recomputed. All numeric fields come from
// the remote model and are displayed without local clamping.
type Score struct {
	Overall         float64         `json:"score"`
	HumanityScore   float64         `json:"humanityScore"`
	BurstinessIndex float64         `json:"burstinessIndex"`
	AuthoritySignal float64         `json:"authoritySignal"`
	Sentiment       string          `json:"sentiment"`
	Structure       Structure       `json:"structure"`
	Terms           []KeywordMetric `json:"terms"`
	Fixes           []string        `json:"fixes"`
}
