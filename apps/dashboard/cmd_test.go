package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/bosvote/core"
	"github.com/trezcool/bosvote/core/poll"
	"github.com/trezcool/bosvote/core/session"
	dummystore "github.com/trezcool/bosvote/storage/dummy"
	sessionstore "github.com/trezcool/bosvote/storage/session"
	testutil "github.com/trezcool/bosvote/tests"
)

func setup(t *testing.T) (*commandLine, *dummystore.PollRepository) {
	repo := dummystore.NewPollRepository()
	logger := testutil.NewLogger()

	conf := &core.Config{Env: "TEST", TestMode: true}
	conf.API.RequestTimeout = time.Second
	conf.API.LiveInterval = 10 * time.Millisecond

	store := sessionstore.MapStore{
		session.FlatRoleKey:  session.RoleMember,
		session.FlatNameKey:  "Alice",
		session.FlatIDKey:    "123",
		session.FlatTokenKey: testutil.Token,
	}

	return &commandLine{
		conf:     conf,
		logger:   logger,
		resolver: session.NewResolver(store, logger),
		svc:      poll.NewService(repo, logger),
	}, repo
}

type cliTest struct {
	name    string
	args    []string // without program name
	wantErr error
}

func Test_commandLine_run(t *testing.T) {
	cli, repo := setup(t)
	repo.AddActive(poll.ActivePoll{
		Poll: poll.Poll{
			ID:             "p1",
			Title:          "Budget",
			Options:        []string{"Approve", "Reject"},
			Status:         poll.StatusActive,
			EligibleVoters: []string{session.RoleMember},
			EndDate:        time.Now().UTC().Add(time.Hour),
		},
		CanVote: true,
	})
	repo.SetLive(poll.LiveResultSnapshot{PollID: "p1", Results: []poll.OptionResult{{Option: "Approve"}}})

	tests := []cliTest{
		{name: "no subcommand", args: nil, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"lol"}, wantErr: errHelp},
		{name: "polls", args: []string{"polls"}},
		{name: "active", args: []string{"active"}},
		{name: "vote", args: []string{"vote", "-poll", "p1", "-option", "Approve"}},
		{name: "vote: missing flags", args: []string{"vote"}, wantErr: errHelp},
		{name: "results", args: []string{"results", "-poll", "p1"}},
		{name: "results: missing poll", args: []string{"results"}, wantErr: errHelp},
		{name: "stats", args: []string{"stats"}},
		{name: "delete", args: []string{"delete", "-poll", "p1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(append([]string{"dashboard"}, tt.args...))
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func Test_commandLine_voteRejectsUnknownOption(t *testing.T) {
	cli, repo := setup(t)
	repo.AddActive(poll.ActivePoll{
		Poll:    poll.Poll{ID: "p1", Options: []string{"Approve", "Reject"}},
		CanVote: true,
	})

	err := cli.run([]string{"dashboard", "vote", "-poll", "p1", "-option", "Maybe"})
	assert.Error(t, err)
	assert.Empty(t, repo.Votes())
}

func Test_commandLine_createParsesDates(t *testing.T) {
	cli, repo := setup(t)
	start := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
	end := time.Now().UTC().Add(48 * time.Hour).Format(time.RFC3339)

	err := cli.run([]string{
		"dashboard", "create",
		"-title", "Fee revision",
		"-options", "For, Against",
		"-start", start,
		"-end", end,
	})
	assert.NoError(t, err)

	polls, _ := repo.QueryAllPolls(context.Background())
	if assert.Len(t, polls, 1) {
		assert.Equal(t, []string{"For", "Against"}, polls[0].Options)
		assert.Equal(t, []string{session.RoleMember}, polls[0].EligibleVoters)
	}
}

func Test_splitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList("a, b"))
	assert.Equal(t, []string{"a"}, splitList("a,,  "))
	assert.Empty(t, splitList(""))
}
