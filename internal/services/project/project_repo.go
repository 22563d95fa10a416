package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrProjectNotFound = errors.New("project not found")

// ProjectRepo handles database operations for projects and their
// assignments
type ProjectRepo struct {
	db *sqlx.DB
}

func NewProjectRepo(db *sqlx.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

// Create creates a new project
func (r *ProjectRepo) Create(ctx context.Context, name, description string, deadline time.Time, createdBy string) (*Project, error) {
	query := `
        INSERT INTO projects (name, description, deadline, created_by)
        VALUES ($1, $2, $3, $4)
        RETURNING id, name, description, deadline, status, created_by, created_at, updated_at
    `

	var project Project
	err := r.db.GetContext(ctx, &project, query, name, description, deadline, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return &project, nil
}

// GetByID retrieves a project by ID
func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*Project, error) {
	query := `
        SELECT id, name, description, deadline, status, created_by, created_at, updated_at
        FROM projects
        WHERE id = $1
    `

	var project Project
	err := r.db.GetContext(ctx, &project, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

// ListAll retrieves every project with its creator's name
func (r *ProjectRepo) ListAll(ctx context.Context) ([]*Project, error) {
	query := `
        SELECT p.id, p.name, p.description, p.deadline, p.status, p.created_by,
               p.created_at, p.updated_at, u.name AS created_by_name
        FROM projects p
        LEFT JOIN users u ON p.created_by = u.id
        ORDER BY p.created_at DESC
    `

	var projects []*Project
	err := r.db.SelectContext(ctx, &projects, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

// ListForUser retrieves projects the user created or is assigned to
func (r *ProjectRepo) ListForUser(ctx context.Context, userID string) ([]*Project, error) {
	query := `
        SELECT DISTINCT p.id, p.name, p.description, p.deadline, p.status, p.created_by,
               p.created_at, p.updated_at, u.name AS created_by_name
        FROM projects p
        LEFT JOIN users u ON p.created_by = u.id
        LEFT JOIN project_assignments pa ON p.id = pa.project_id
        WHERE pa.user_id = $1 OR p.created_by = $1
        ORDER BY p.created_at DESC
    `

	var projects []*Project
	err := r.db.SelectContext(ctx, &projects, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

// ListAssigned retrieves the projects a developer is assigned to, with
// document counts and the lead's name
func (r *ProjectRepo) ListAssigned(ctx context.Context, userID string) ([]*AssignedProject, error) {
	query := `
        SELECT p.id, p.name, p.description, p.deadline, p.status, p.created_by,
               p.created_at, p.updated_at,
               COUNT(DISTINCT pd.id) AS document_count,
               MAX(u.name) AS project_lead
        FROM projects p
        INNER JOIN project_assignments pa ON p.id = pa.project_id
            AND pa.user_id = $1 AND pa.role = 'developer'
        LEFT JOIN project_documents pd ON p.id = pd.project_id
        LEFT JOIN project_assignments lead_pa ON p.id = lead_pa.project_id AND lead_pa.role = 'lead'
        LEFT JOIN users u ON lead_pa.user_id = u.id
        GROUP BY p.id
        ORDER BY p.created_at DESC
    `

	var projects []*AssignedProject
	err := r.db.SelectContext(ctx, &projects, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned projects: %w", err)
	}

	return projects, nil
}

// ListLead retrieves the projects a lead runs (created or assigned as
// lead), with developer counts
func (r *ProjectRepo) ListLead(ctx context.Context, userID string) ([]*LeadProject, error) {
	query := `
        SELECT p.id, p.name, p.description, p.deadline, p.status, p.created_by,
               p.created_at, p.updated_at,
               COUNT(pa.user_id) AS assigned_count
        FROM projects p
        LEFT JOIN project_assignments pa ON p.id = pa.project_id AND pa.role = 'developer'
        LEFT JOIN project_assignments lead_pa ON p.id = lead_pa.project_id
            AND lead_pa.user_id = $1 AND lead_pa.role = 'lead'
        WHERE lead_pa.user_id IS NOT NULL OR p.created_by = $1
        GROUP BY p.id
        ORDER BY p.created_at DESC
    `

	var projects []*LeadProject
	err := r.db.SelectContext(ctx, &projects, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lead projects: %w", err)
	}

	return projects, nil
}

// UpdateStatus updates a project's status
func (r *ProjectRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	query := `
        UPDATE projects
        SET status = $1, updated_at = NOW()
        WHERE id = $2
    `

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update project status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProjectNotFound
	}

	return nil
}

// ReplaceDevelopers swaps the full set of developer assignments for a
// project in one transaction. Lead assignments are untouched.
func (r *ProjectRepo) ReplaceDevelopers(ctx context.Context, projectID string, developerIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
        DELETE FROM project_assignments
        WHERE project_id = $1 AND role = 'developer'
    `, projectID); err != nil {
		return fmt.Errorf("failed to clear developer assignments: %w", err)
	}

	for _, developerID := range developerIDs {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO project_assignments (project_id, user_id, role)
            VALUES ($1, $2, 'developer')
        `, projectID, developerID); err != nil {
			return fmt.Errorf("failed to assign developer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assignments: %w", err)
	}

	return nil
}

// ListDevelopers retrieves every developer with their assignment state for
// one project
func (r *ProjectRepo) ListDevelopers(ctx context.Context, projectID string) ([]*DeveloperOption, error) {
	query := `
        SELECT u.id, u.name, u.email,
               CASE WHEN pa.user_id IS NOT NULL THEN true ELSE false END AS is_assigned
        FROM users u
        LEFT JOIN project_assignments pa ON u.id = pa.user_id
            AND pa.project_id = $1 AND pa.role = 'developer'
        WHERE u.role = 'developer'
        ORDER BY u.name
    `

	var developers []*DeveloperOption
	err := r.db.SelectContext(ctx, &developers, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list developers: %w", err)
	}

	return developers, nil
}

// TeamMembers retrieves the users assigned to a project
func (r *ProjectRepo) TeamMembers(ctx context.Context, projectID string) ([]*TeamMember, error) {
	query := `
        SELECT u.id, u.name, u.email, pa.role
        FROM users u
        JOIN project_assignments pa ON u.id = pa.user_id
        WHERE pa.project_id = $1
        ORDER BY pa.role, u.name
    `

	var members []*TeamMember
	err := r.db.SelectContext(ctx, &members, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}

	return members, nil
}

// Stats aggregates project counts and the most recent projects
func (r *ProjectRepo) Stats(ctx context.Context, recentLimit int) (*Stats, error) {
	var stats Stats
	err := r.db.QueryRowxContext(ctx, `
        SELECT COUNT(*),
               COUNT(CASE WHEN status = 'active' THEN 1 END),
               COUNT(CASE WHEN status = 'completed' THEN 1 END)
        FROM projects
    `).Scan(&stats.TotalProjects, &stats.ActiveProjects, &stats.CompletedProjects)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate project stats: %w", err)
	}

	query := `
        SELECT id, name, description, deadline, status, created_by, created_at, updated_at
        FROM projects
        ORDER BY created_at DESC
        LIMIT $1
    `
	if err := r.db.SelectContext(ctx, &stats.RecentProjects, query, recentLimit); err != nil {
		return nil, fmt.Errorf("failed to list recent projects: %w", err)
	}

	return &stats, nil
}
