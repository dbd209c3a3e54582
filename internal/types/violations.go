package types

// Violation is one problem found in rendered markup
type Violation struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	Details    string `json:"details"`
	LineNumber int    `json:"lineNumber,omitempty"`
	Column     int    `json:"column,omitempty"`
}

// Violation severities
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)
