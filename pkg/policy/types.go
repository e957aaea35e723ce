package policy

import "time"

// Severity represents the severity level of a policy violation.
type Severity string

const (
	// SeverityInfo is for informational messages.
	SeverityInfo Severity = "info"

	// SeverityWarning is for warnings that should be reviewed but do not
	// block the command.
	SeverityWarning Severity = "warning"

	// SeverityError blocks the command.
	SeverityError Severity = "error"

	// SeverityCritical blocks the command and should be surfaced
	// prominently.
	SeverityCritical Severity = "critical"
)

// Policy is a named Rego rule set evaluated against a CommandProposal.
type Policy struct {
	Name        string
	Description string
	Rego        string
	Severity    Severity
	Enabled     bool
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CommandProposal is the input a command-safety evaluation runs against:
// the shape of a command the composer is about to produce, before it is
// actually assembled. It deliberately mirrors the composer's own inputs
// (source, operation, packages) rather than a finished command string, so
// policies can reason about structured fields (e.g. "source == aur")
// without re-parsing shell text.
type CommandProposal struct {
	Source    string   `json:"source"`
	Operation string   `json:"operation"`
	Packages  []string `json:"packages"`
	Timestamp time.Time `json:"timestamp"`
}

// Violation is a single policy rule failure.
type Violation struct {
	Policy   string   `json:"policy"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Result is the outcome of evaluating all enabled policies against one
// CommandProposal.
type Result struct {
	// EvaluationID identifies this one Evaluate call in logs, independent
	// of the proposal's own content, so a single install run's several
	// per-source evaluations can be correlated even when two sources
	// propose identical packages.
	EvaluationID      string      `json:"evaluation_id"`
	Allowed           bool        `json:"allowed"`
	Violations        []Violation `json:"violations,omitempty"`
	Warnings          []Violation `json:"warnings,omitempty"`
	EvaluatedPolicies []string    `json:"evaluated_policies"`
	EvaluatedAt       time.Time   `json:"evaluated_at"`
	Duration          time.Duration `json:"duration"`
}
