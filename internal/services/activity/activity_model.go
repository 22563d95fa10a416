package activity

import (
	"time"
)

// Event is a single audit-log entry. Target holds the identifier of the
// entity the action touched, empty when there is none.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	UserEmail string    `json:"user_email"`
	Action    string    `json:"action"`
	Target    string    `json:"target,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Actions recorded by the API layer
const (
	ActionLogin           = "auth.login"
	ActionLogout          = "auth.logout"
	ActionPasswordChange  = "auth.password_change"
	ActionUserCreate      = "user.create"
	ActionProjectCreate   = "project.create"
	ActionProjectStatus   = "project.status"
	ActionProjectAssign   = "project.assign"
	ActionDocumentUpload  = "document.upload"
	ActionSuggestionQuery = "ai.suggestions"
	ActionRiskQuery       = "ai.risks"
)
