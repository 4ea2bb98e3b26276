package dummystore

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/trezcool/bosvote/core"
	"github.com/trezcool/bosvote/core/poll"
)

// PollRepository is an in-memory poll.Repository used in tests and for
// offline development. Hooks allow injecting latency and failures.
type PollRepository struct {
	mu        sync.RWMutex
	pkCount   int
	polls     map[string]poll.Poll
	active    map[string]poll.ActivePoll
	live      map[string]poll.LiveResultSnapshot
	votes     []poll.Vote
	stats     poll.Statistics
	liveCalls map[string]int

	// SubmitHook runs before a vote is recorded; returning an error (or
	// blocking) stands in for backend behavior.
	SubmitHook func(pollID string, nv poll.NewVote) error
	// LiveHook runs before live results are served.
	LiveHook func(pollID string) error
	// ListHook runs before either poll listing is served.
	ListHook func() error
}

var _ poll.Repository = (*PollRepository)(nil) // interface compliance check

func NewPollRepository() *PollRepository {
	return &PollRepository{
		polls:     make(map[string]poll.Poll),
		active:    make(map[string]poll.ActivePoll),
		live:      make(map[string]poll.LiveResultSnapshot),
		liveCalls: make(map[string]int),
	}
}

// Seeding helpers

func (repo *PollRepository) AddPoll(p poll.Poll) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.polls[p.ID] = p
}

func (repo *PollRepository) AddActive(ap poll.ActivePoll) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.polls[ap.ID] = ap.Poll
	repo.active[ap.ID] = ap
}

func (repo *PollRepository) SetLive(snap poll.LiveResultSnapshot) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.live[snap.PollID] = snap
}

func (repo *PollRepository) SetStatistics(stats poll.Statistics) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.stats = stats
}

// LiveCalls reports how many times live results were fetched for a poll.
func (repo *PollRepository) LiveCalls(pollID string) int {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return repo.liveCalls[pollID]
}

func (repo *PollRepository) Votes() []poll.Vote {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	votes := make([]poll.Vote, len(repo.votes))
	copy(votes, repo.votes)
	return votes
}

// poll.Repository

func (repo *PollRepository) QueryAllPolls(_ context.Context) ([]poll.Poll, error) {
	if repo.ListHook != nil {
		if err := repo.ListHook(); err != nil {
			return nil, err
		}
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()
	polls := make([]poll.Poll, 0, len(repo.polls))
	for _, p := range repo.polls {
		polls = append(polls, p)
	}
	return polls, nil
}

func (repo *PollRepository) QueryActivePolls(_ context.Context) ([]poll.ActivePoll, error) {
	if repo.ListHook != nil {
		if err := repo.ListHook(); err != nil {
			return nil, err
		}
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()
	polls := make([]poll.ActivePoll, 0, len(repo.active))
	for _, ap := range repo.active {
		polls = append(polls, ap)
	}
	return polls, nil
}

func (repo *PollRepository) GetPoll(_ context.Context, id string) (poll.Poll, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	p, ok := repo.polls[id]
	if !ok {
		return poll.Poll{}, core.NewAPIError(http.StatusNotFound, "poll not found", "")
	}
	return p, nil
}

func (repo *PollRepository) CreatePoll(_ context.Context, np poll.NewPoll) (poll.Poll, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.pkCount++
	p := poll.Poll{
		ID:                 fmt.Sprintf("poll-%d", repo.pkCount),
		Title:              np.Title,
		Description:        np.Description,
		Options:            np.Options,
		Status:             poll.StatusDraft,
		StartDate:          np.StartDate,
		EndDate:            np.EndDate,
		EligibleVoters:     np.EligibleVoters,
		IsAnonymous:        np.IsAnonymous,
		AllowMultipleVotes: np.AllowMultipleVotes,
		Settings:           np.Settings,
	}
	repo.polls[p.ID] = p
	return p, nil
}

func (repo *PollRepository) UpdatePoll(_ context.Context, id string, up poll.UpdatePoll) (poll.Poll, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	p, ok := repo.polls[id]
	if !ok {
		return poll.Poll{}, core.NewAPIError(http.StatusNotFound, "poll not found", "")
	}
	if up.Title != "" {
		p.Title = up.Title
	}
	if up.Description != "" {
		p.Description = up.Description
	}
	if !up.EndDate.IsZero() {
		p.EndDate = up.EndDate
	}
	if up.EligibleVoters != nil {
		p.EligibleVoters = up.EligibleVoters
	}
	if up.Settings != nil {
		p.Settings = *up.Settings
	}
	repo.polls[id] = p
	return p, nil
}

func (repo *PollRepository) DeletePoll(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	delete(repo.polls, id)
	delete(repo.active, id)
	delete(repo.live, id)
	return nil
}

func (repo *PollRepository) SubmitVote(_ context.Context, pollID string, nv poll.NewVote) (poll.Vote, error) {
	if repo.SubmitHook != nil {
		if err := repo.SubmitHook(pollID, nv); err != nil {
			return poll.Vote{}, err
		}
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	p, ok := repo.polls[pollID]
	if !ok {
		return poll.Vote{}, core.NewAPIError(http.StatusNotFound, "poll not found", "")
	}
	vote := poll.Vote{
		PollID:         pollID,
		OptionSelected: nv.OptionSelected,
		Comment:        nv.Comment,
		VotedAt:        time.Now().UTC(),
	}
	repo.votes = append(repo.votes, vote)
	p.TotalVotes++
	repo.polls[pollID] = p
	return vote, nil
}

func (repo *PollRepository) GetResults(_ context.Context, pollID string) (poll.Results, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	p, ok := repo.polls[pollID]
	if !ok {
		return poll.Results{}, core.NewAPIError(http.StatusNotFound, "poll not found", "")
	}
	snap := repo.live[pollID]
	return poll.Results{
		PollID:     p.ID,
		Title:      p.Title,
		Status:     p.Status,
		Results:    snap.Results,
		TotalVotes: snap.TotalVotes,
	}, nil
}

func (repo *PollRepository) GetLiveResults(_ context.Context, pollID string) (poll.LiveResultSnapshot, error) {
	if repo.LiveHook != nil {
		if err := repo.LiveHook(pollID); err != nil {
			repo.mu.Lock()
			repo.liveCalls[pollID]++
			repo.mu.Unlock()
			return poll.LiveResultSnapshot{}, err
		}
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.liveCalls[pollID]++
	snap, ok := repo.live[pollID]
	if !ok {
		return poll.LiveResultSnapshot{}, core.NewAPIError(http.StatusNotFound, "poll not found", "")
	}
	return snap, nil
}

func (repo *PollRepository) GetStatistics(_ context.Context) (poll.Statistics, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return repo.stats, nil
}
