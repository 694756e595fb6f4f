// Package policy centralizes role and ownership authorization for every
// mutating operation. The admin override lives here and nowhere else.
package policy

import (
	"errors"

	"jobboard/internal/api/models"
)

var (
	ErrNotLoggedIn   = errors.New("not logged in")
	ErrForbiddenRole = errors.New("forbidden role")
	ErrNotOwner      = errors.New("not owner")
)

// Session is the authenticated principal for one request, built by the auth
// middleware and passed explicitly into every service call.
type Session struct {
	UserID      string
	Role        string
	DisplayName string
}

func (s Session) Authenticated() bool {
	return s.UserID != ""
}

func (s Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

// Action names an operation and the role it requires. An empty RequireRole
// means any authenticated user may attempt it.
type Action struct {
	Name        string
	RequireRole string
}

var (
	PostJob             = Action{Name: "post_job", RequireRole: models.RoleRecruiter}
	EditJob             = Action{Name: "edit_job", RequireRole: models.RoleRecruiter}
	SetJobStatus        = Action{Name: "set_job_status", RequireRole: models.RoleRecruiter}
	RemoveJob           = Action{Name: "remove_job", RequireRole: models.RoleRecruiter}
	ViewOwnJobs         = Action{Name: "view_own_jobs", RequireRole: models.RoleRecruiter}
	ApplyToJob          = Action{Name: "apply_to_job", RequireRole: models.RoleJobseeker}
	ReviewApplication   = Action{Name: "review_application", RequireRole: models.RoleRecruiter}
	WithdrawApplication = Action{Name: "withdraw_application", RequireRole: models.RoleJobseeker}
	ListApplications    = Action{Name: "list_applications"}
	EditProfile         = Action{Name: "edit_profile"}
	ReadNotifications   = Action{Name: "read_notifications"}
	ManageUsers         = Action{Name: "manage_users", RequireRole: models.RoleAdmin}
)

// Authorize evaluates the rules in order; the first failing rule decides.
// ownerID is the resource's owning user id, or empty when the action has no
// ownership component. Pure decision function, no side effects: callers must
// short-circuit before touching the datastore when it returns an error.
func Authorize(s Session, a Action, ownerID string) error {
	if !s.Authenticated() {
		return ErrNotLoggedIn
	}
	if a.RequireRole != "" && s.Role != a.RequireRole && !s.IsAdmin() {
		return ErrForbiddenRole
	}
	if ownerID != "" && ownerID != s.UserID && !s.IsAdmin() {
		return ErrNotOwner
	}
	return nil
}
