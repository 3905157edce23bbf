package result

// Error represents a validation or conversion error reported to the caller.
type Error struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	Path       string `json:"path,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Warning represents a non-fatal finding (e.g. a skipped Terraform resource).
type Warning struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	Path       string `json:"path,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Import actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// ImportResult describes the remote effect of a successful import.
type ImportResult struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Action string `json:"action"` // created | updated
	UUID   string `json:"uuid,omitempty"`
}

// ConvertResult is the outcome of a Terraform-to-OTM conversion.
type ConvertResult struct {
	Success  bool      `json:"success"`
	Document []byte    `json:"-"` // OTM YAML
	Errors   []Error   `json:"errors,omitempty"`
	Warnings []Warning `json:"warnings,omitempty"`
}
