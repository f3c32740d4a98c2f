package authmodule

import "time"

// Role is an admin-console role.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Permission is a console capability string.
type Permission string

const (
	PermissionRead           Permission = "read"
	PermissionWrite          Permission = "write"
	PermissionDelete         Permission = "delete"
	PermissionPublish        Permission = "publish"
	PermissionManageUsers    Permission = "manage_users"
	PermissionManageRoles    Permission = "manage_roles"
	PermissionSystemSettings Permission = "system_settings"
)

// AdminUser is a console operator identity. Distinct from the managed
// subscriber records: this is who is driving the console, drawn from the
// fixed demo roster.
type AdminUser struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	Role        Role         `json:"role"`
	Permissions []Permission `json:"permissions"`
	LastLogin   time.Time    `json:"lastLogin"`
	Avatar      string       `json:"avatar,omitempty"`
}

// HasPermission reports set membership.
func (u *AdminUser) HasPermission(p Permission) bool {
	for _, have := range u.Permissions {
		if have == p {
			return true
		}
	}
	return false
}

// DemoRoster returns the fixed operator identities the demo console
// accepts. Permission sets are determined solely by role.
func DemoRoster() []AdminUser {
	return []AdminUser{
		{
			ID:       "1",
			Username: "admin",
			Email:    "admin@streamvault.tv",
			Role:     RoleAdmin,
			Permissions: []Permission{
				PermissionRead, PermissionWrite, PermissionDelete,
				PermissionPublish, PermissionManageUsers,
				PermissionManageRoles, PermissionSystemSettings,
			},
			Avatar: "/avatars/admin.png",
		},
		{
			ID:       "2",
			Username: "editor",
			Email:    "editor@streamvault.tv",
			Role:     RoleEditor,
			Permissions: []Permission{
				PermissionRead, PermissionWrite, PermissionPublish,
			},
			Avatar: "/avatars/editor.png",
		},
		{
			ID:       "3",
			Username: "viewer",
			Email:    "viewer@streamvault.tv",
			Role:     RoleViewer,
			Permissions: []Permission{
				PermissionRead,
			},
			Avatar: "/avatars/viewer.png",
		},
	}
}
