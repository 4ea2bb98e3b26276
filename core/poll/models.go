package poll

import (
	"time"

	"github.com/trezcool/bosvote/core"
	"github.com/trezcool/bosvote/core/session"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further status transition can happen.
// Transitions are monotonic and server-driven; the client only ever
// reacts to the value the server returns.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Settings struct {
	RequireComments      bool `json:"require_comments"`
	ShowResultsBeforeEnd bool `json:"show_results_before_end"`
	AutoCloseOnEndDate   bool `json:"auto_close_on_end_date"`
}

type Creator struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type Poll struct {
	ID                 string    `json:"poll_id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Options            []string  `json:"options"`
	Status             Status    `json:"status"`
	StartDate          time.Time `json:"start_date"` // UTC
	EndDate            time.Time `json:"end_date"`   // UTC
	EligibleVoters     []string  `json:"eligible_voters"`
	IsAnonymous        bool      `json:"is_anonymous"`
	AllowMultipleVotes bool      `json:"allow_multiple_votes"`
	Settings           Settings  `json:"settings"`
	CreatedBy          Creator   `json:"created_by"`
	TotalVotes         int       `json:"total_votes"` // server-maintained
}

func (p Poll) HasOption(label string) bool {
	for _, opt := range p.Options {
		if opt == label {
			return true
		}
	}
	return false
}

// RoleEligible reports whether a role appears in the poll's
// eligible-voters set.
func (p Poll) RoleEligible(role string) bool {
	role = core.CleanString(role, true)
	for _, r := range p.EligibleVoters {
		if core.CleanString(r, true) == role {
			return true
		}
	}
	return false
}

// ActivePoll is a poll as returned by the active listing, annotated with
// the server's authoritative per-user flags.
type ActivePoll struct {
	Poll
	CanVote      bool `json:"can_vote"`
	UserHasVoted bool `json:"user_has_voted"`
}

// IsEligibleToVote is the client-side affordance check: the session role
// must appear in the poll's eligible-voters set AND the server must have
// said can_vote. Both are required; the role check only exists so an
// ineligible option never flashes before the server round-trip settles.
func IsEligibleToVote(p ActivePoll, sess *session.Session) bool {
	if sess == nil {
		return false
	}
	return p.RoleEligible(sess.Role) && p.CanVote
}

type NewPoll struct {
	Title              string    `json:"title" validate:"required,notblank"`
	Description        string    `json:"description"`
	Options            []string  `json:"options" validate:"min=2,dive,notblank"`
	StartDate          time.Time `json:"start_date" validate:"required"`
	EndDate            time.Time `json:"end_date" validate:"required"`
	EligibleVoters     []string  `json:"eligible_voters" validate:"min=1,all_roles"`
	IsAnonymous        bool      `json:"is_anonymous"`
	AllowMultipleVotes bool      `json:"allow_multiple_votes"`
	Settings           Settings  `json:"settings"`
}

type UpdatePoll struct {
	Title          string    `json:"title,omitempty" validate:"omitempty,notblank"`
	Description    string    `json:"description,omitempty"`
	EndDate        time.Time `json:"end_date,omitempty"`
	EligibleVoters []string  `json:"eligible_voters,omitempty" validate:"omitempty,all_roles"`
	Settings       *Settings `json:"settings,omitempty"`
}

type NewVote struct {
	OptionSelected string `json:"option_selected" validate:"required,notblank"`
	Comment        string `json:"comment"`
}

type Vote struct {
	PollID         string    `json:"poll_id"`
	VoterID        string    `json:"voter_id"`
	VoterName      string    `json:"voter_name"`
	VoterRole      string    `json:"voter_role"`
	OptionSelected string    `json:"option_selected"`
	Comment        string    `json:"comment,omitempty"`
	VotedAt        time.Time `json:"voted_at"`
}

type OptionResult struct {
	Option     string  `json:"option"`
	VoteCount  int     `json:"vote_count"`
	Percentage float64 `json:"percentage"`
}

type RecentVote struct {
	VoterName string    `json:"voter_name"`
	VoterRole string    `json:"voter_role"`
	Option    string    `json:"option"`
	VotedAt   time.Time `json:"voted_at"`
}

// LiveResultSnapshot is one internally consistent set of result fields
// fetched in a single request. Frames must render from exactly one
// snapshot; fields from two fetch cycles are never mixed.
type LiveResultSnapshot struct {
	PollID      string         `json:"poll_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Results     []OptionResult `json:"results"`
	TotalVotes  int            `json:"total_votes"`
	IsActive    bool           `json:"is_active"`
	EndDate     time.Time      `json:"end_date"`
	LastUpdated time.Time      `json:"last_updated"`
	// RecentVotes is only populated for non-anonymous polls.
	RecentVotes []RecentVote `json:"recent_votes,omitempty"`
}

// Results are the final (non-live) tallies of a poll.
type Results struct {
	PollID     string         `json:"poll_id"`
	Title      string         `json:"title"`
	Status     Status         `json:"status"`
	Results    []OptionResult `json:"results"`
	TotalVotes int            `json:"total_votes"`
}

type StatusCount struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
	Votes  int    `json:"votes"`
}

// Statistics is the system-wide aggregate view for the overview screen.
type Statistics struct {
	TotalPolls     int           `json:"total_polls"`
	ActivePolls    int           `json:"active_polls"`
	CompletedPolls int           `json:"completed_polls"`
	Breakdown      []StatusCount `json:"breakdown"`
}
