package services

import (
	"context"
	"net/http"

	"github.com/studiowebux/sihui/internal/client"
	"github.com/studiowebux/sihui/internal/types"
)

// UserQuery filters the user listing
type UserQuery struct {
	types.PaginationParams
	Keyword string
	Status  string
	Role    string
}

func (q UserQuery) params() client.Params {
	return pageParams(q.PaginationParams, client.Params{
		"keyword": optional(q.Keyword),
		"status":  optional(q.Status),
		"role":    optional(q.Role),
	})
}

// UserService wraps /api/users
type UserService struct {
	c *client.Client
}

func userPath(id types.ID) string {
	return "/api/users/" + id.String()
}

// List returns one page of users
func (s *UserService) List(ctx context.Context, q UserQuery) (*types.Page[types.User], error) {
	return ref(get[types.Page[types.User]](ctx, s.c, "/api/users", q.params()))
}

// Get returns a single user
func (s *UserService) Get(ctx context.Context, id types.ID) (*types.User, error) {
	return ref(get[types.User](ctx, s.c, userPath(id), nil))
}

// Create creates an account
func (s *UserService) Create(ctx context.Context, req types.CreateUserRequest) (*types.User, error) {
	return ref(post[types.User](ctx, s.c, "/api/users", req))
}

// Update changes the non-nil fields of an account
func (s *UserService) Update(ctx context.Context, id types.ID, req types.UpdateUserRequest) (*types.User, error) {
	return ref(put[types.User](ctx, s.c, userPath(id), req))
}

// Delete removes an account
func (s *UserService) Delete(ctx context.Context, id types.ID) error {
	return exec(ctx, s.c, client.Request{Method: http.MethodDelete, Endpoint: userPath(id)})
}

// BatchDelete removes several accounts; the ids travel as the JSON body of the DELETE
func (s *UserService) BatchDelete(ctx context.Context, ids []types.ID) error {
	return exec(ctx, s.c, client.Request{Method: http.MethodDelete, Endpoint: "/api/users/batch", Body: ids})
}

// UpdateStatus sets ACTIVE, INACTIVE or SUSPENDED
func (s *UserService) UpdateStatus(ctx context.Context, id types.ID, status string) error {
	return exec(ctx, s.c, client.Request{
		Method:   http.MethodPatch,
		Endpoint: userPath(id) + "/status",
		Query:    client.Params{"status": status},
	})
}

// Search finds users by keyword, 10 per page unless size is set
func (s *UserService) Search(ctx context.Context, keyword string, page, size int) (*types.Page[types.User], error) {
	return ref(get[types.Page[types.User]](ctx, s.c, "/api/users/search", client.Params{
		"keyword": keyword,
		"page":    page,
		"size":    orDefault(size, 10),
	}))
}

// ByStatus lists users in one status
func (s *UserService) ByStatus(ctx context.Context, status string, p types.PaginationParams) (*types.Page[types.User], error) {
	return ref(get[types.Page[types.User]](ctx, s.c, "/api/users/status/"+status, client.Params(p.Params())))
}

// Roles lists the roles of a user
func (s *UserService) Roles(ctx context.Context, id types.ID) ([]types.Role, error) {
	return get[[]types.Role](ctx, s.c, userPath(id)+"/roles", nil)
}

// AssignRoles grants roles to a user
func (s *UserService) AssignRoles(ctx context.Context, id types.ID, roleIDs []types.ID) error {
	return exec(ctx, s.c, client.Request{
		Method:   http.MethodPost,
		Endpoint: userPath(id) + "/roles",
		Body:     map[string][]types.ID{"roleIds": roleIDs},
	})
}

// RemoveRoles revokes roles from a user
func (s *UserService) RemoveRoles(ctx context.Context, id types.ID, roleIDs []types.ID) error {
	return exec(ctx, s.c, client.Request{
		Method:   http.MethodDelete,
		Endpoint: userPath(id) + "/roles",
		Body:     map[string][]types.ID{"roleIds": roleIDs},
	})
}

// Permissions lists the effective permissions of a user
func (s *UserService) Permissions(ctx context.Context, id types.ID) ([]types.Permission, error) {
	return get[[]types.Permission](ctx, s.c, userPath(id)+"/permissions", nil)
}

// CheckUsername reports whether a username is taken
func (s *UserService) CheckUsername(ctx context.Context, username string) (bool, error) {
	return s.check(ctx, "/api/users/check-username", "username", username)
}

// CheckEmail reports whether an email is taken
func (s *UserService) CheckEmail(ctx context.Context, email string) (bool, error) {
	return s.check(ctx, "/api/users/check-email", "email", email)
}

// CheckPhone reports whether a phone number is taken
func (s *UserService) CheckPhone(ctx context.Context, phone string) (bool, error) {
	return s.check(ctx, "/api/users/check-phone", "phone", phone)
}

func (s *UserService) check(ctx context.Context, endpoint, key, value string) (bool, error) {
	res, err := get[types.Exists](ctx, s.c, endpoint, client.Params{key: value})
	return res.Exists, err
}
