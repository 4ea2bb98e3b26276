package session

import "github.com/trezcool/bosvote/core"

// Roles
const (
	RoleController = "boscontroller"
	RoleMember     = "bosmembers"
)

var AllRoles = []string{RoleController, RoleMember}

// Storage keys. The login flow has written sessions in two historical
// shapes: a single structured JSON object, or four independent flat keys.
// Both must keep working.
const (
	StructuredKey = "session"

	FlatRoleKey  = "role"
	FlatNameKey  = "name"
	FlatIDKey    = "_id"
	FlatTokenKey = "token"
)

// Session is the canonical identity of the signed-in user, as resolved
// from local storage. It is read-only within this module.
type Session struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

func (s Session) IsController() bool {
	return core.CleanString(s.Role, true) == RoleController
}

func (s Session) HasRole(roles ...string) bool {
	role := core.CleanString(s.Role, true)
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	return false
}
