// Package model defines the domain types shared across the matching pipeline.
package model

import "time"

// CompanyProfile describes one company entering the matching pipeline.
// Immutable once constructed; built either from a parsed tabular upload
// (subject A) or from form input (subject B).
type CompanyProfile struct {
	Name        string `json:"name"`
	Industry    string `json:"industry"`
	Description string `json:"description"`
}

// Complete reports whether all three fields are populated. The core pipeline
// assumes this precondition holds and does not re-validate.
func (p CompanyProfile) Complete() bool {
	return p.Name != "" && p.Industry != "" && p.Description != ""
}

// PrecedentCase is an illustrative past collaboration case attached to a report.
type PrecedentCase struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
	ROI         string `json:"roi"`
}

// MatchingReport is the final aggregate produced for one matching request.
// Held only in transient session state; discarded on cleanup.
type MatchingReport struct {
	CompanyA        CompanyProfile  `json:"company_a"`
	CompanyB        CompanyProfile  `json:"company_b"`
	MatchingScore   int             `json:"matching_score"`
	MatchingDetails string          `json:"matching_details"`
	PastCases       []PrecedentCase `json:"past_cases"`
	Strategies      []string        `json:"strategies"`

	// Degraded is true when any provider call fell back to static or
	// randomized content, so degraded responses are distinguishable in
	// telemetry even though they still look like genuine results.
	Degraded bool `json:"degraded"`
}

// AnalysisSummary holds the narrative fields returned by the analyze step.
type AnalysisSummary struct {
	SearchQuery        string `json:"search_query"`
	IndustryAnalysis   string `json:"industry_analysis"`
	CaseReference      string `json:"case_reference"`
	DataAnalysis       string `json:"data_analysis"`
	MatchingPatterns   string `json:"matching_patterns"`
	CandidateSelection string `json:"candidate_selection"`
}

// SessionState is everything the service remembers about one matching request.
type SessionState struct {
	CompanyA   CompanyProfile   `json:"company_a"`
	CompanyB   CompanyProfile   `json:"company_b"`
	UploadPath string           `json:"upload_path,omitempty"`
	Analysis   *AnalysisSummary `json:"analysis,omitempty"`
	Report     *MatchingReport  `json:"report,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}
