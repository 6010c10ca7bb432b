package domain

import (
	"context"
	"fmt"
	"time"
)

// Role is the closed set of portal roles. Free-form role strings from the
// identity provider are parsed through ParseRole so an unknown role is an
// explicit error instead of an implicit deny.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleEmployee  Role = "employee"
	RoleHR        Role = "hr"
	RoleAdmin     Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCandidate, RoleEmployee, RoleHR, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// CanActForOthers reports whether the role may target other users' documents.
func (r Role) CanActForOthers() bool {
	return r == RoleHR || r == RoleAdmin
}

// ResumeSlot is the singleton resume reference kept on the user record,
// mirroring the most recent category=resume document.
type ResumeSlot struct {
	StorageRef string `json:"storage_ref"`
	URL        string `json:"url"`
}

type User struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      Role        `json:"role"`
	Skills    []string    `json:"skills"`
	Resume    *ResumeSlot `json:"resume,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// UserSummary is the id+name projection served to hr/admin for picking an
// upload/delete target.
type UserSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserIdentity is the display snapshot attached to aggregated document rows.
type UserIdentity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserRepository interface {
	// GetByID returns (nil, nil) when no such user exists.
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]UserSummary, error)
}

type UserUsecase interface {
	// ListUsers serves the hr/admin target-picker directory.
	ListUsers(ctx context.Context) ([]UserSummary, error)
}
