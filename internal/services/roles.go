package services

import (
	"context"
	"net/http"

	"github.com/studiowebux/sihui/internal/client"
	"github.com/studiowebux/sihui/internal/types"
)

// RoleService wraps /api/roles
type RoleService struct {
	c *client.Client
}

func rolePath(id types.ID) string {
	return "/api/roles/" + id.String()
}

func (s *RoleService) List(ctx context.Context) ([]types.Role, error) {
	return get[[]types.Role](ctx, s.c, "/api/roles", nil)
}

func (s *RoleService) Get(ctx context.Context, id types.ID) (*types.Role, error) {
	return ref(get[types.Role](ctx, s.c, rolePath(id), nil))
}

func (s *RoleService) Create(ctx context.Context, role types.Role) (*types.Role, error) {
	role.ID = 0
	return ref(post[types.Role](ctx, s.c, "/api/roles", role))
}

func (s *RoleService) Update(ctx context.Context, id types.ID, role types.Role) (*types.Role, error) {
	role.ID = 0
	return ref(put[types.Role](ctx, s.c, rolePath(id), role))
}

func (s *RoleService) Delete(ctx context.Context, id types.ID) error {
	return exec(ctx, s.c, client.Request{Method: http.MethodDelete, Endpoint: rolePath(id)})
}

// AssignPermissions grants permissions to a role
func (s *RoleService) AssignPermissions(ctx context.Context, id types.ID, permissionIDs []types.ID) error {
	return exec(ctx, s.c, client.Request{
		Method:   http.MethodPost,
		Endpoint: rolePath(id) + "/permissions",
		Body:     map[string][]types.ID{"permissionIds": permissionIDs},
	})
}

// RemovePermissions revokes permissions from a role
func (s *RoleService) RemovePermissions(ctx context.Context, id types.ID, permissionIDs []types.ID) error {
	return exec(ctx, s.c, client.Request{
		Method:   http.MethodDelete,
		Endpoint: rolePath(id) + "/permissions",
		Body:     map[string][]types.ID{"permissionIds": permissionIDs},
	})
}

// PermissionService wraps /api/permissions
type PermissionService struct {
	c *client.Client
}

func permissionPath(id types.ID) string {
	return "/api/permissions/" + id.String()
}

func (s *PermissionService) List(ctx context.Context) ([]types.Permission, error) {
	return get[[]types.Permission](ctx, s.c, "/api/permissions", nil)
}

func (s *PermissionService) Get(ctx context.Context, id types.ID) (*types.Permission, error) {
	return ref(get[types.Permission](ctx, s.c, permissionPath(id), nil))
}

func (s *PermissionService) Create(ctx context.Context, perm types.Permission) (*types.Permission, error) {
	perm.ID = 0
	return ref(post[types.Permission](ctx, s.c, "/api/permissions", perm))
}

func (s *PermissionService) Delete(ctx context.Context, id types.ID) error {
	return exec(ctx, s.c, client.Request{Method: http.MethodDelete, Endpoint: permissionPath(id)})
}

// Check reports whether a user holds the named permission
func (s *PermissionService) Check(ctx context.Context, userID types.ID, permission string) (bool, error) {
	res, err := get[types.HasPermission](ctx, s.c, "/api/permissions/check", client.Params{
		"userId":     userID,
		"permission": permission,
	})
	return res.HasPermission, err
}
