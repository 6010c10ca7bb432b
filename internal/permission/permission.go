// Package permission is the single decision point for document access. Every
// operation on the document service goes through Decide; handlers and
// usecases never re-derive role rules on their own.
package permission

import (
	"hr-portal-backend/internal/domain"
	"hr-portal-backend/pkg/apperror"
)

type Action string

const (
	ActionUpload Action = "upload"
	ActionView   Action = "view"
	ActionDelete Action = "delete"
)

// Decide evaluates the fixed role/action table. It is pure and total: every
// (role, action) pair has a defined outcome, and an unknown role is its own
// error rather than an ambiguous deny. Returns nil on allow.
//
//	role      | upload                      | view/list | delete
//	admin     | any user, any category      | any user  | any user
//	hr        | any user, any category      | any user  | any user
//	candidate | self only, resume only      | self only | self only
//	employee  | none                        | self only | self only
//
// For hr/admin uploads an empty ownerID means the caller omitted the target
// user, which is a distinct deny, never a silent default to self.
func Decide(role domain.Role, action Action, actorID, ownerID string, category domain.Category) *apperror.AppError {
	switch role {
	case domain.RoleAdmin, domain.RoleHR:
		if action == ActionUpload && ownerID == "" {
			return apperror.Forbidden("A target user is required when uploading on behalf of someone")
		}
		return nil

	case domain.RoleCandidate:
		switch action {
		case ActionUpload:
			if actorID != ownerID {
				return apperror.Forbidden("You can only upload documents to your own profile")
			}
			if category != domain.CategoryResume {
				return apperror.Forbidden("Candidates may only upload a resume")
			}
			return nil
		case ActionView, ActionDelete:
			if actorID != ownerID {
				return apperror.Forbidden("You can only access your own documents")
			}
			return nil
		}

	case domain.RoleEmployee:
		switch action {
		case ActionUpload:
			// Employees cannot upload at all; uploads on their behalf come
			// from hr/admin.
			return apperror.Forbidden("Employees are not allowed to upload documents")
		case ActionView, ActionDelete:
			if actorID != ownerID {
				return apperror.Forbidden("You can only access your own documents")
			}
			return nil
		}
	}

	return apperror.New(apperror.KindInternal, 500, "unknown role or action", nil)
}
