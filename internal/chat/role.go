package chat

import "workforce/internal/model"

// Role is the chat-side view of an account role.
type Role int

const (
	RoleEmployee Role = iota
	RoleAdmin
)

// ParseRole maps a stored role string to a Role. Anything that is not an
// admin is treated as an employee.
func ParseRole(s string) Role {
	if s == model.RoleAdmin {
		return RoleAdmin
	}
	return RoleEmployee
}

// PrivateAllowed is the admission rule for private messages: exactly one of
// the two participants must be an admin. Admin↔admin and employee↔employee
// private chats are rejected.
func PrivateAllowed(sender, receiver Role) bool {
	return (sender == RoleAdmin) != (receiver == RoleAdmin)
}
