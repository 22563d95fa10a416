package project

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelforge/nexus/internal/services/user"
)

type fakeProjectStore struct {
	projects    map[string]*Project
	assignments map[string][]string // projectID -> developer IDs

	listAllCalled     bool
	listForUserCalled string
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{
		projects:    map[string]*Project{},
		assignments: map[string][]string{},
	}
}

func (f *fakeProjectStore) Create(_ context.Context, name, description string, deadline time.Time, createdBy string) (*Project, error) {
	p := &Project{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Deadline:    deadline,
		Status:      StatusActive,
		CreatedBy:   createdBy,
	}
	f.projects[p.ID.String()] = p
	return p, nil
}

func (f *fakeProjectStore) GetByID(_ context.Context, id string) (*Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

func (f *fakeProjectStore) ListAll(_ context.Context) ([]*Project, error) {
	f.listAllCalled = true
	out := make([]*Project, 0, len(f.projects))
	for _, p := range f.projects {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProjectStore) ListForUser(_ context.Context, userID string) ([]*Project, error) {
	f.listForUserCalled = userID
	return nil, nil
}

func (f *fakeProjectStore) ListAssigned(_ context.Context, _ string) ([]*AssignedProject, error) {
	return nil, nil
}

func (f *fakeProjectStore) ListLead(_ context.Context, _ string) ([]*LeadProject, error) {
	return nil, nil
}

func (f *fakeProjectStore) UpdateStatus(_ context.Context, id string, status Status) error {
	p, ok := f.projects[id]
	if !ok {
		return ErrProjectNotFound
	}
	p.Status = status
	return nil
}

func (f *fakeProjectStore) ReplaceDevelopers(_ context.Context, projectID string, developerIDs []string) error {
	f.assignments[projectID] = developerIDs
	return nil
}

func (f *fakeProjectStore) ListDevelopers(_ context.Context, _ string) ([]*DeveloperOption, error) {
	return nil, nil
}

func (f *fakeProjectStore) TeamMembers(_ context.Context, _ string) ([]*TeamMember, error) {
	return nil, nil
}

func (f *fakeProjectStore) Stats(_ context.Context, _ int) (*Stats, error) {
	return &Stats{TotalProjects: len(f.projects)}, nil
}

func TestCreateProject(t *testing.T) {
	store := newFakeProjectStore()
	svc := NewProjectService(store)

	created, err := svc.Create(context.Background(), &CreateProjectRequest{
		Name:        "Nebula",
		Description: "Space sim",
		Deadline:    "2026-12-31",
	}, "lead1")
	require.NoError(t, err)

	assert.Equal(t, "Nebula", created.Name)
	assert.Equal(t, StatusActive, created.Status)
	assert.Equal(t, "lead1", created.CreatedBy)
	assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), created.Deadline)
}

func TestCreateProjectValidation(t *testing.T) {
	svc := NewProjectService(newFakeProjectStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateProjectRequest{Description: "x", Deadline: "2026-12-31"}, "u1")
	assert.Error(t, err)

	_, err = svc.Create(ctx, &CreateProjectRequest{Name: "X", Description: "x", Deadline: "31-12-2026"}, "u1")
	assert.ErrorIs(t, err, ErrInvalidDeadline)

	_, err = svc.Create(ctx, &CreateProjectRequest{Name: "X", Description: "x", Deadline: "not a date"}, "u1")
	assert.ErrorIs(t, err, ErrInvalidDeadline)
}

func TestListForBranchesOnRole(t *testing.T) {
	store := newFakeProjectStore()
	svc := NewProjectService(store)
	ctx := context.Background()

	_, err := svc.ListFor(ctx, &user.User{ID: "a1", Role: user.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, store.listAllCalled)
	assert.Empty(t, store.listForUserCalled)

	store.listAllCalled = false
	_, err = svc.ListFor(ctx, &user.User{ID: "l1", Role: user.RoleProjectLead})
	require.NoError(t, err)
	assert.False(t, store.listAllCalled)
	assert.Equal(t, "l1", store.listForUserCalled)
}

func TestUpdateStatus(t *testing.T) {
	store := newFakeProjectStore()
	svc := NewProjectService(store)
	ctx := context.Background()

	p, err := svc.Create(ctx, &CreateProjectRequest{Name: "X", Description: "x", Deadline: "2026-12-31"}, "u1")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.UpdateStatus(ctx, p.ID.String(), Status("archived")), ErrInvalidStatus)
	assert.ErrorIs(t, svc.UpdateStatus(ctx, uuid.NewString(), StatusCompleted), ErrProjectNotFound)

	require.NoError(t, svc.UpdateStatus(ctx, p.ID.String(), StatusCompleted))
	assert.Equal(t, StatusCompleted, store.projects[p.ID.String()].Status)
}

func TestAssignDevelopers(t *testing.T) {
	store := newFakeProjectStore()
	svc := NewProjectService(store)
	ctx := context.Background()

	p, err := svc.Create(ctx, &CreateProjectRequest{Name: "X", Description: "x", Deadline: "2026-12-31"}, "u1")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.AssignDevelopers(ctx, uuid.NewString(), []string{"d1"}), ErrProjectNotFound)

	require.NoError(t, svc.AssignDevelopers(ctx, p.ID.String(), []string{"d1", "d2"}))
	assert.Equal(t, []string{"d1", "d2"}, store.assignments[p.ID.String()])

	// An empty list clears the team
	require.NoError(t, svc.AssignDevelopers(ctx, p.ID.String(), nil))
	assert.Empty(t, store.assignments[p.ID.String()])
}
