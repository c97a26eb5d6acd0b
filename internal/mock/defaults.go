package mock

// DefaultToken is the access token issued by the default login route
const DefaultToken = "mock-access-token"

func mockUser(id int, username, status string) map[string]any {
	return map[string]any{
		"id":            id,
		"username":      username,
		"email":         username + "@sihui.local",
		"realName":      username,
		"status":        status,
		"emailVerified": true,
		"phoneVerified": false,
		"createdAt":     "2025-09-01T08:00:00",
	}
}

// DefaultConfig serves the auth endpoints, a user listing and the health report.
// Point the client at the server root: routes already carry the /api prefix.
func DefaultConfig() *Config {
	admin := mockUser(1, "admin", "ACTIVE")
	users := []any{
		admin,
		mockUser(2, "trainer", "ACTIVE"),
		mockUser(3, "trainee", "INACTIVE"),
	}

	return &Config{
		Name: "sihui-default",
		Routes: []Route{
			{
				Name:   "login",
				Method: "POST",
				Path:   "/api/auth/login",
				Data: map[string]any{
					"token":        DefaultToken,
					"refreshToken": "mock-refresh-token",
					"expiresIn":    3600,
					"user":         admin,
				},
				Message: "登录成功",
			},
			{
				Name:   "refresh",
				Method: "POST",
				Path:   "/api/auth/refresh",
				Data: map[string]any{
					"token":        DefaultToken,
					"refreshToken": "mock-refresh-token",
					"expiresIn":    3600,
				},
			},
			{
				Name:    "logout",
				Method:  "POST",
				Path:    "/api/auth/logout",
				Message: "已退出登录",
			},
			{
				Name:   "current user",
				Method: "GET",
				Path:   "/api/auth/me",
				Data:   admin,
			},
			{
				Name:   "user list",
				Method: "GET",
				Path:   "/api/users",
				Data: map[string]any{
					"content":       users,
					"totalElements": len(users),
					"totalPages":    1,
					"size":          10,
					"number":        0,
					"first":         true,
					"last":          true,
				},
			},
			{
				Name:      "user detail",
				Method:    "GET",
				Path:      `^/api/users/\d+$`,
				MatchType: MatchRegex,
				Data:      admin,
			},
			{
				Name:   "health",
				Method: "GET",
				Path:   "/api/monitoring/health",
				Data: map[string]any{
					"status": "UP",
					"components": map[string]any{
						"db":    map[string]any{"status": "UP"},
						"redis": map[string]any{"status": "UP"},
					},
				},
			},
		},
	}
}
