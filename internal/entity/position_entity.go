package entity

import "time"

// Decision values a reviewer can attach to a candidate file.
const (
	DecisionNeutral = "neutral"
	DecisionYes     = "yes"
	DecisionMaybe   = "maybe"
	DecisionNo      = "no"
)

// ValidDecision reports whether s is one of the four decision values.
func ValidDecision(s string) bool {
	switch s {
	case DecisionNeutral, DecisionYes, DecisionMaybe, DecisionNo:
		return true
	}
	return false
}

// NextDecision is the entire decision transition function: resending the
// current non-neutral value un-picks it back to neutral, anything else
// just takes effect. Neutral is absorbing.
func NextDecision(current, requested string) string {
	if requested == current && requested != DecisionNeutral {
		return DecisionNeutral
	}
	return requested
}

// PositionDetails holds the optional descriptive fields of a position.
// Absent fields are always materialized as empty strings, never null.
type PositionDetails struct {
	Salary     string `json:"salary"`
	Location   string `json:"location"`
	Experience string `json:"experience"`
	Benefits   string `json:"benefits"`
	Notes      string `json:"notes"`
}

// Position is a job opening owned by a client, identified by
// (client name, position name).
type Position struct {
	ClientName string
	Name       string
	Details    PositionDetails
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// CandidateFile is one uploaded file within a position, carrying the
// reviewer decision. Filenames are unique (case-sensitive) per position.
type CandidateFile struct {
	ClientName   string
	PositionName string
	Filename     string
	ContentType  string
	Size         int64
	Decision     string
	UploadedAt   time.Time
}
