package poll_test

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/bosvote/core"
	"github.com/trezcool/bosvote/core/poll"
	"github.com/trezcool/bosvote/core/session"
)

func validNewPoll() poll.NewPoll {
	now := time.Now().UTC()
	return poll.NewPoll{
		Title:          "Budget approval",
		Options:        []string{"Approve", "Reject"},
		StartDate:      now.Add(time.Hour),
		EndDate:        now.Add(25 * time.Hour),
		EligibleVoters: []string{session.RoleMember},
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	if !ok {
		t.Fatalf("expected *core.ValidationError; got %T (%v)", err, err)
	}
	flds := make(map[string]string, len(vErr.Fields))
	for _, f := range vErr.Fields {
		flds[f.Field] = f.Error
	}
	return flds
}

func TestNewPollValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*poll.NewPoll)
		wantField string
	}{
		{"valid", func(np *poll.NewPoll) {}, ""},
		{"missing title", func(np *poll.NewPoll) { np.Title = "" }, "title"},
		{"blank title", func(np *poll.NewPoll) { np.Title = "   " }, "title"},
		{"single option", func(np *poll.NewPoll) { np.Options = []string{"Approve"} }, "options"},
		{"empty option label", func(np *poll.NewPoll) { np.Options = []string{"Approve", " "} }, "options"},
		{"end before start", func(np *poll.NewPoll) { np.EndDate = np.StartDate.Add(-time.Hour) }, "end_date"},
		{"start in the past", func(np *poll.NewPoll) { np.StartDate = time.Now().UTC().Add(-time.Hour) }, "start_date"},
		{"no eligible roles", func(np *poll.NewPoll) { np.EligibleVoters = nil }, "eligible_voters"},
		{"unknown role", func(np *poll.NewPoll) { np.EligibleVoters = []string{"warden"} }, "eligible_voters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			np := validNewPoll()
			tt.mutate(&np)

			err := core.Validate.Struct(np)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			if err == nil {
				t.Fatal("expected a validation error")
			}
			var found bool
			for _, f := range core.TranslateValidationErrors(err) {
				if strings.HasPrefix(f.Field, tt.wantField) {
					found = true
				}
			}
			assert.True(t, found, "expected an error on %q", tt.wantField)
		})
	}
}

func TestCheckVote(t *testing.T) {
	p := poll.Poll{
		ID:      "p1",
		Options: []string{"Approve", "Reject"},
	}

	assert.NoError(t, poll.CheckVote(p, poll.NewVote{OptionSelected: "Approve"}))

	err := poll.CheckVote(p, poll.NewVote{OptionSelected: "Maybe"})
	flds := fieldErrors(t, err)
	assert.Contains(t, flds, "option_selected")

	p.Settings.RequireComments = true
	err = poll.CheckVote(p, poll.NewVote{OptionSelected: "Reject", Comment: "  "})
	flds = fieldErrors(t, err)
	assert.Contains(t, flds, "comment")

	assert.NoError(t, poll.CheckVote(p, poll.NewVote{OptionSelected: "Reject", Comment: "too costly"}))
}
