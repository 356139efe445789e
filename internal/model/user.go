package model

import "fmt"

type UserID string
type CommunityID string

type Role int

const (
	RoleGeneral Role = iota
	RoleModerator
	RoleAdmin
)

func ParseRole(s string) (Role, error) {
	switch s {
	case "general", "":
		return RoleGeneral, nil
	case "moderator":
		return RoleModerator, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleGeneral, fmt.Errorf("unknown role: %s", s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleModerator:
		return "moderator"
	case RoleAdmin:
		return "admin"
	default:
		return "general"
	}
}

// Viewer is the authenticated identity a read or decision is evaluated
// against, as asserted by the upstream auth service's token.
type Viewer struct {
	ID   UserID
	Role Role
}

func (v Viewer) CanModerate() bool {
	return v.Role == RoleModerator || v.Role == RoleAdmin
}
