package analysis

import (
	"github.com/sells-group/demographics-cli/internal/distribution"
	"github.com/sells-group/demographics-cli/internal/matcher"
)

// Status classifies one table's outcome within an analysis.
type Status string

const (
	// StatusSuccess means the table yielded a conditional distribution.
	StatusSuccess Status = "success"
	// StatusNoData means the store holds no rows for this table and geography.
	StatusNoData Status = "no_data"
	// StatusNoMatch means the anchor value resolved only to a low-confidence
	// guess against this table's local categories.
	StatusNoMatch Status = "no_match"
	// StatusError means the fetch or computation failed.
	StatusError Status = "error"
)

// TableOutcome is one table's slice of the fan-out. Failed tables carry an
// error message; no_match outcomes still carry the best-effort match so the
// caller can render a closest-available result.
type TableOutcome struct {
	TableID          string                     `json:"table_id"`
	PairedVariable   string                     `json:"paired_variable"`
	Status           Status                     `json:"status"`
	Distribution     *distribution.Distribution `json:"distribution,omitempty"`
	MatchedCondition string                     `json:"matched_condition,omitempty"`
	Explanation      string                     `json:"explanation,omitempty"`
	Error            string                     `json:"error,omitempty"`
	Retryable        bool                       `json:"retryable,omitempty"`
}

// Summary counts the fan-out.
type Summary struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
}

// Result is the full response for one anchor-conditioned analysis. Tables
// are ordered by the taxonomy's adjacency list, not completion order.
type Result struct {
	GeographyID    string         `json:"geography_id"`
	AnchorVariable string         `json:"anchor_variable"`
	AnchorValue    string         `json:"anchor_value"`
	ResolvedAnchor matcher.Result `json:"resolved_anchor"`
	Tables         []TableOutcome `json:"tables"`
	Summary        Summary        `json:"summary"`
}
