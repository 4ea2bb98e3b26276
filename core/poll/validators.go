package poll

import (
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/bosvote/core"
	"github.com/trezcool/bosvote/core/session"
)

var (
	allRolesTag  = "all_roles"
	allRolesText = "invalid roles"

	datesOrderTag  = "dates_order"
	datesOrderText = "end date must be after start date"

	startPastTag  = "start_past"
	startPastText = "start date cannot be in the past"
)

// register custom validators
func init() {
	_ = core.Validate.RegisterValidation(allRolesTag, allRolesValidation)
	core.RegisterCustomTranslation(allRolesTag, allRolesText)

	core.Validate.RegisterStructValidation(newPollStructValidation, NewPoll{})
	core.RegisterCustomTranslation(datesOrderTag, datesOrderText)
	core.RegisterCustomTranslation(startPastTag, startPastText)
}

// CheckVote validates a vote against the poll it targets: the selection
// must be one of the poll's listed options, and a comment is required
// when the poll says so. The UI normally guarantees both via exclusive
// selection; the server remains authoritative either way.
func CheckVote(p Poll, nv NewVote) error {
	if !p.HasOption(nv.OptionSelected) {
		return core.NewValidationError(
			errors.New("invalid option"),
			core.FieldError{Field: "option_selected", Error: "must be one of the poll's options"},
		)
	}
	if p.Settings.RequireComments && strings.TrimSpace(nv.Comment) == "" {
		return core.NewValidationError(
			errors.New("comment required"),
			core.FieldError{Field: "comment", Error: "this poll requires a comment with your vote"},
		)
	}
	return nil
}

// Custom Validators

// allRolesValidation checks that provided voter roles are all in session.AllRoles
func allRolesValidation(fl validator.FieldLevel) bool {
	if roles, ok := fl.Field().Interface().([]string); ok {
		sort.Strings(session.AllRoles)
		for _, role := range roles {
			if idx := sort.SearchStrings(session.AllRoles, role); idx < len(session.AllRoles) {
				if match := session.AllRoles[idx]; role != match {
					return false
				}
			} else {
				return false
			}
		}
		return true
	}
	return false
}

// newPollStructValidation does NewPoll's struct level validation.
// The server revalidates the schedule; this only spares a doomed request.
func newPollStructValidation(sl validator.StructLevel) {
	if np, ok := sl.Current().Interface().(NewPoll); ok {
		if !np.StartDate.IsZero() && !np.EndDate.IsZero() && !np.EndDate.After(np.StartDate) {
			sl.ReportError(np.EndDate, "end_date", "EndDate", datesOrderTag, "")
		}
		if !np.StartDate.IsZero() && np.StartDate.Before(time.Now().UTC()) {
			sl.ReportError(np.StartDate, "start_date", "StartDate", startPastTag, "")
		}
	}
}
