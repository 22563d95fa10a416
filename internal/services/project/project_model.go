package project

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusCompleted
}

type AssignmentRole string

const (
	AssignmentLead      AssignmentRole = "lead"
	AssignmentDeveloper AssignmentRole = "developer"
)

// Project represents a studio project tracked by the team
type Project struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Deadline    time.Time `json:"deadline" db:"deadline"`
	Status      Status    `json:"status" db:"status"`
	CreatedBy   string    `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// CreatedByName is populated by listing joins
	CreatedByName *string `json:"created_by_name,omitempty" db:"created_by_name"`
}

// AssignedProject is the developer's view of a project
type AssignedProject struct {
	Project
	DocumentCount int     `json:"document_count" db:"document_count"`
	ProjectLead   *string `json:"project_lead,omitempty" db:"project_lead"`
}

// LeadProject is the project lead's view of a project
type LeadProject struct {
	Project
	AssignedCount int `json:"assigned_count" db:"assigned_count"`
}

// TeamMember is a user assigned to a project together with their
// assignment role
type TeamMember struct {
	ID    string         `json:"id" db:"id"`
	Name  string         `json:"name" db:"name"`
	Email string         `json:"email" db:"email"`
	Role  AssignmentRole `json:"role" db:"role"`
}

// DeveloperOption is a developer with their assignment state for one
// project, used by the team-assignment dialog
type DeveloperOption struct {
	ID         string `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	Email      string `json:"email" db:"email"`
	IsAssigned bool   `json:"is_assigned" db:"is_assigned"`
}

// Stats summarizes projects for the admin dashboard
type Stats struct {
	TotalProjects     int        `json:"total_projects"`
	ActiveProjects    int        `json:"active_projects"`
	CompletedProjects int        `json:"completed_projects"`
	RecentProjects    []*Project `json:"recent_projects"`
}

// CreateProjectRequest captures payload for creating a project. Deadline is
// a calendar date in 2006-01-02 form.
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"required"`
	Deadline    string `json:"deadline" validate:"required"`
}

// AssignTeamRequest replaces a project's developer assignments
type AssignTeamRequest struct {
	DeveloperIDs []string `json:"developerIds"`
}

// UpdateStatusRequest changes a project's status
type UpdateStatusRequest struct {
	Status Status `json:"status"`
}
