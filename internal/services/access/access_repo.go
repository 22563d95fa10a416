package access

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// AccessRepo evaluates a user's relationship to a project against the
// project and assignment tables. It only ever reads them.
type AccessRepo struct {
	db *sqlx.DB
}

func NewAccessRepo(db *sqlx.DB) *AccessRepo {
	return &AccessRepo{db: db}
}

// IsLeadOrCreator reports whether the user created the project or holds a
// 'lead' assignment on it.
func (r *AccessRepo) IsLeadOrCreator(ctx context.Context, projectID, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM projects
			WHERE id = $1 AND created_by = $2
			UNION
			SELECT 1 FROM project_assignments
			WHERE project_id = $1 AND user_id = $2 AND role = 'lead'
		)
	`
	var ok bool
	if err := r.db.GetContext(ctx, &ok, query, projectID, userID); err != nil {
		return false, fmt.Errorf("failed to check project ownership: %w", err)
	}
	return ok, nil
}

// IsMemberOrCreator reports whether the user created the project or holds
// any assignment on it.
func (r *AccessRepo) IsMemberOrCreator(ctx context.Context, projectID, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM projects
			WHERE id = $1 AND created_by = $2
			UNION
			SELECT 1 FROM project_assignments
			WHERE project_id = $1 AND user_id = $2
		)
	`
	var ok bool
	if err := r.db.GetContext(ctx, &ok, query, projectID, userID); err != nil {
		return false, fmt.Errorf("failed to check project membership: %w", err)
	}
	return ok, nil
}
