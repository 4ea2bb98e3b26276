package poll

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/trezcool/bosvote/core"
)

var (
	// errors
	ErrNotFound     = errors.New("poll not found")
	ErrVoteInFlight = errors.New("a vote submission is already in progress")
)

type (
	// Repository is the poll backend. The only real implementation talks
	// REST to the BOS service; the backend stays authoritative for
	// lifecycle transitions, eligibility and tallying.
	Repository interface {
		QueryAllPolls(ctx context.Context) ([]Poll, error)
		QueryActivePolls(ctx context.Context) ([]ActivePoll, error)
		GetPoll(ctx context.Context, id string) (Poll, error)
		CreatePoll(ctx context.Context, np NewPoll) (Poll, error)
		UpdatePoll(ctx context.Context, id string, up UpdatePoll) (Poll, error)
		DeletePoll(ctx context.Context, id string) error
		SubmitVote(ctx context.Context, pollID string, nv NewVote) (Vote, error)
		GetResults(ctx context.Context, pollID string) (Results, error)
		GetLiveResults(ctx context.Context, pollID string) (LiveResultSnapshot, error)
		GetStatistics(ctx context.Context) (Statistics, error)
	}

	Service struct {
		repo   Repository
		logger core.Logger

		// voteBusy is the disable-on-submit guard: at most one vote POST
		// may be outstanding. Purely advisory; the server still owns
		// duplicate-vote prevention.
		voteBusy int32
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListAll returns every poll regardless of status. On failure the error
// is returned alongside an empty (never nil) slice so callers can render
// an empty history plus a banner without nil checks.
func (svc *Service) ListAll(ctx context.Context) ([]Poll, error) {
	polls, err := svc.repo.QueryAllPolls(ctx)
	if err != nil {
		svc.logger.Warn("poll: listing all polls", err)
		return []Poll{}, err
	}
	if polls == nil {
		polls = []Poll{}
	}
	return polls, nil
}

// ListActive returns the polls the server currently considers active for
// this session, annotated with can_vote and user_has_voted.
func (svc *Service) ListActive(ctx context.Context) ([]ActivePoll, error) {
	polls, err := svc.repo.QueryActivePolls(ctx)
	if err != nil {
		svc.logger.Warn("poll: listing active polls", err)
		return []ActivePoll{}, err
	}
	if polls == nil {
		polls = []ActivePoll{}
	}
	return polls, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Poll, error) {
	return svc.repo.GetPoll(ctx, id)
}

func (svc *Service) Create(ctx context.Context, np NewPoll) (Poll, error) {
	if err := core.Validate.Struct(np); err != nil {
		return Poll{}, core.NewValidationError(err, core.TranslateValidationErrors(err)...)
	}
	return svc.repo.CreatePoll(ctx, np)
}

func (svc *Service) Update(ctx context.Context, id string, up UpdatePoll) (Poll, error) {
	if err := core.Validate.Struct(up); err != nil {
		return Poll{}, core.NewValidationError(err, core.TranslateValidationErrors(err)...)
	}
	return svc.repo.UpdatePoll(ctx, id, up)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeletePoll(ctx, id)
}

// CastVote submits exactly one POST per user action. While one submission
// is outstanding any further call returns ErrVoteInFlight; a failed vote
// is never retried automatically.
func (svc *Service) CastVote(ctx context.Context, pollID string, nv NewVote) (Vote, error) {
	if err := core.Validate.Struct(nv); err != nil {
		return Vote{}, core.NewValidationError(err, core.TranslateValidationErrors(err)...)
	}

	if !atomic.CompareAndSwapInt32(&svc.voteBusy, 0, 1) {
		return Vote{}, ErrVoteInFlight
	}
	defer atomic.StoreInt32(&svc.voteBusy, 0)

	vote, err := svc.repo.SubmitVote(ctx, pollID, nv)
	if err != nil {
		return Vote{}, err
	}
	return vote, nil
}

func (svc *Service) Results(ctx context.Context, pollID string) (Results, error) {
	return svc.repo.GetResults(ctx, pollID)
}

func (svc *Service) LiveResults(ctx context.Context, pollID string) (LiveResultSnapshot, error) {
	return svc.repo.GetLiveResults(ctx, pollID)
}

// Statistics fetches the aggregate counts for the overview screen.
// Failures are logged; the caller keeps whatever it was displaying.
func (svc *Service) Statistics(ctx context.Context) (Statistics, error) {
	stats, err := svc.repo.GetStatistics(ctx)
	if err != nil {
		svc.logger.Warn("poll: fetching statistics", err)
		return Statistics{}, err
	}
	return stats, nil
}
