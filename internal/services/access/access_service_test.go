package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelforge/nexus/internal/services/user"
)

type fakeAccessStore struct {
	leads   map[string]bool // "projectID/userID"
	members map[string]bool
}

func (f *fakeAccessStore) IsLeadOrCreator(_ context.Context, projectID, userID string) (bool, error) {
	return f.leads[projectID+"/"+userID], nil
}

func (f *fakeAccessStore) IsMemberOrCreator(_ context.Context, projectID, userID string) (bool, error) {
	return f.members[projectID+"/"+userID], nil
}

func TestCanManageProject(t *testing.T) {
	store := &fakeAccessStore{
		leads:   map[string]bool{"p1/lead1": true},
		members: map[string]bool{"p1/lead1": true, "p1/dev1": true},
	}
	svc := NewAccessService(store)
	ctx := context.Background()

	admin := &user.User{ID: "admin1", Role: user.RoleAdmin}
	lead := &user.User{ID: "lead1", Role: user.RoleProjectLead}
	otherLead := &user.User{ID: "lead2", Role: user.RoleProjectLead}

	// Admin bypasses ownership entirely, even with no relationship rows
	require.NoError(t, svc.CanManageProject(ctx, admin, "p1"))
	require.NoError(t, svc.CanManageProject(ctx, admin, "p-unknown"))

	// The assigned lead qualifies; an unrelated lead of the same rank does not
	require.NoError(t, svc.CanManageProject(ctx, lead, "p1"))
	assert.ErrorIs(t, svc.CanManageProject(ctx, otherLead, "p1"), ErrAccessDenied)

	assert.ErrorIs(t, svc.CanManageProject(ctx, nil, "p1"), ErrAuthenticationRequired)
}

func TestCanViewProject(t *testing.T) {
	store := &fakeAccessStore{
		leads:   map[string]bool{"p1/lead1": true},
		members: map[string]bool{"p1/lead1": true, "p1/dev1": true},
	}
	svc := NewAccessService(store)
	ctx := context.Background()

	dev := &user.User{ID: "dev1", Role: user.RoleDeveloper}
	otherDev := &user.User{ID: "dev2", Role: user.RoleDeveloper}

	require.NoError(t, svc.CanViewProject(ctx, dev, "p1"))
	assert.ErrorIs(t, svc.CanViewProject(ctx, otherDev, "p1"), ErrAccessDenied)

	// A developer may view but not manage
	assert.ErrorIs(t, svc.CanManageProject(ctx, dev, "p1"), ErrAccessDenied)

	assert.ErrorIs(t, svc.CanViewProject(ctx, nil, "p1"), ErrAuthenticationRequired)
}
