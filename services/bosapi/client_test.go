package bosapi_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/bosvote/core"
	"github.com/trezcool/bosvote/core/poll"
	"github.com/trezcool/bosvote/core/session"
	"github.com/trezcool/bosvote/services/bosapi"
	testutil "github.com/trezcool/bosvote/tests"
)

func setup(t *testing.T) (*bosapi.Client, *testutil.Backend) {
	t.Helper()
	backend := testutil.NewBackend(t)
	client := bosapi.NewClient(backend.Config(), testutil.StaticToken(testutil.Token), testutil.NewLogger())
	return client, backend
}

func TestQueryAllPolls(t *testing.T) {
	client, backend := setup(t)
	backend.Repo.AddPoll(poll.Poll{
		ID:             "p1",
		Title:          "Budget",
		Options:        []string{"Approve", "Reject"},
		Status:         poll.StatusActive,
		EligibleVoters: []string{session.RoleMember},
		EndDate:        time.Now().UTC().Add(time.Hour).Truncate(time.Second),
	})

	polls, err := client.QueryAllPolls(context.Background())
	assert.NoError(t, err)
	if assert.Len(t, polls, 1) {
		assert.Equal(t, "p1", polls[0].ID)
		assert.Equal(t, poll.StatusActive, polls[0].Status)
		assert.Equal(t, []string{"Approve", "Reject"}, polls[0].Options)
	}
}

func TestQueryActivePolls(t *testing.T) {
	client, backend := setup(t)
	backend.Repo.AddActive(poll.ActivePoll{
		Poll:         poll.Poll{ID: "p1", Title: "Budget", Status: poll.StatusActive},
		CanVote:      true,
		UserHasVoted: false,
	})

	polls, err := client.QueryActivePolls(context.Background())
	assert.NoError(t, err)
	if assert.Len(t, polls, 1) {
		assert.True(t, polls[0].CanVote)
		assert.False(t, polls[0].UserHasVoted)
	}
}

func TestMissingTokenShortCircuits(t *testing.T) {
	backend := testutil.NewBackend(t)
	client := bosapi.NewClient(backend.Config(), testutil.StaticToken(""), testutil.NewLogger())

	_, err := client.QueryAllPolls(context.Background())
	assert.True(t, core.IsUnauthorized(err))
	assert.Equal(t, "login required", errors.Cause(err).Error())
}

func TestRejectedTokenIsUnauthorized(t *testing.T) {
	backend := testutil.NewBackend(t)
	client := bosapi.NewClient(backend.Config(), testutil.StaticToken("stale-token"), testutil.NewLogger())

	_, err := client.QueryActivePolls(context.Background())
	assert.True(t, core.IsUnauthorized(err))
}

func TestSubmitVote(t *testing.T) {
	client, backend := setup(t)
	backend.Repo.AddActive(poll.ActivePoll{
		Poll:    poll.Poll{ID: "p1", Options: []string{"Yes", "No"}},
		CanVote: true,
	})

	vote, err := client.SubmitVote(context.Background(), "p1", poll.NewVote{OptionSelected: "Yes", Comment: "fine by me"})
	assert.NoError(t, err)
	assert.Equal(t, "p1", vote.PollID)
	assert.Equal(t, "Yes", vote.OptionSelected)
	assert.Equal(t, "fine by me", vote.Comment)
}

func TestSubmitVoteServerMessageSurfaced(t *testing.T) {
	client, backend := setup(t)
	backend.Repo.AddActive(poll.ActivePoll{Poll: poll.Poll{ID: "p1", Options: []string{"Yes"}}})
	backend.Repo.SubmitHook = func(string, poll.NewVote) error {
		return core.NewAPIError(http.StatusConflict, "you have already voted on this poll", "")
	}

	_, err := client.SubmitVote(context.Background(), "p1", poll.NewVote{OptionSelected: "Yes"})
	if assert.Error(t, err) {
		assert.Equal(t, "you have already voted on this poll", errors.Cause(err).Error())
	}
}

func TestGetPollNotFound(t *testing.T) {
	client, _ := setup(t)

	_, err := client.GetPoll(context.Background(), "nope")
	assert.True(t, core.IsNotFound(err))
}

func TestGetLiveResults(t *testing.T) {
	client, backend := setup(t)
	end := time.Now().UTC().Add(30 * time.Minute).Truncate(time.Second)
	backend.Repo.SetLive(poll.LiveResultSnapshot{
		PollID:     "p1",
		Title:      "Budget",
		TotalVotes: 4,
		IsActive:   true,
		EndDate:    end,
		Results: []poll.OptionResult{
			{Option: "Approve", VoteCount: 3, Percentage: 75},
			{Option: "Reject", VoteCount: 1, Percentage: 25},
		},
		RecentVotes: []poll.RecentVote{
			{VoterName: "Alice", VoterRole: session.RoleMember, Option: "Approve"},
		},
	})

	snap, err := client.GetLiveResults(context.Background(), "p1")
	assert.NoError(t, err)
	assert.Equal(t, 4, snap.TotalVotes)
	assert.True(t, snap.EndDate.Equal(end))
	if assert.Len(t, snap.Results, 2) {
		assert.Equal(t, 75.0, snap.Results[0].Percentage)
	}
	assert.Len(t, snap.RecentVotes, 1)
}

func TestValidationErrorsDecoded(t *testing.T) {
	client, backend := setup(t)
	backend.Repo.AddActive(poll.ActivePoll{Poll: poll.Poll{ID: "p1", Options: []string{"Yes"}}})
	backend.Repo.SubmitHook = func(string, poll.NewVote) error {
		return core.NewValidationError(
			errors.New("invalid vote"),
			core.FieldError{Field: "comment", Error: "this poll requires a comment with your vote"},
		)
	}

	_, err := client.SubmitVote(context.Background(), "p1", poll.NewVote{OptionSelected: "Yes"})
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	if !ok {
		t.Fatalf("expected *core.ValidationError; got %T (%v)", err, err)
	}
	if assert.Len(t, vErr.Fields, 1) {
		assert.Equal(t, "comment", vErr.Fields[0].Field)
	}
}

func TestCreateUpdateDeleteRoundTrip(t *testing.T) {
	client, _ := setup(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	p, err := client.CreatePoll(ctx, poll.NewPoll{
		Title:          "Fee revision",
		Options:        []string{"For", "Against"},
		StartDate:      now.Add(time.Hour),
		EndDate:        now.Add(48 * time.Hour),
		EligibleVoters: []string{session.RoleMember},
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	p2, err := client.UpdatePoll(ctx, p.ID, poll.UpdatePoll{Title: "Fee revision (v2)"})
	assert.NoError(t, err)
	assert.Equal(t, "Fee revision (v2)", p2.Title)

	assert.NoError(t, client.DeletePoll(ctx, p.ID))
	_, err = client.GetPoll(ctx, p.ID)
	assert.True(t, core.IsNotFound(err))
}

func TestGetStatistics(t *testing.T) {
	client, backend := setup(t)
	backend.Repo.SetStatistics(poll.Statistics{TotalPolls: 7, ActivePolls: 2, CompletedPolls: 5})

	stats, err := client.GetStatistics(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 7, stats.TotalPolls)
}
