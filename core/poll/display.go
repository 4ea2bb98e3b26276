package poll

import (
	"fmt"
	"time"
)

// Option colors are assigned by position in the results list and the
// leading option is overridden to the highlight color, so a color is a
// function of (index, is-leading) and not of the option's identity.
// If the backend ever reorders options between fetches, colors shift
// with them. TODO: key colors by option label once backend ordering
// stability is confirmed.
var optionPalette = []string{
	"#3b82f6", // blue
	"#8b5cf6", // violet
	"#f59e0b", // amber
	"#14b8a6", // teal
	"#ef4444", // red
	"#64748b", // slate
}

const leadingColor = "#22c55e" // green

// FormatTimeRemaining renders the time left before end as a rough,
// human-glanceable countdown.
func FormatTimeRemaining(end, now time.Time) string {
	d := end.Sub(now)
	if d <= 0 {
		return "Voting has ended"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm remaining", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %ds remaining", m, s)
	default:
		return fmt.Sprintf("%ds remaining", s)
	}
}

// TimeRemaining derives the countdown from this snapshot only; it is
// recomputed every frame and never cached across snapshots.
func (s LiveResultSnapshot) TimeRemaining(now time.Time) string {
	return FormatTimeRemaining(s.EndDate, now)
}

// Leading returns the index of the option currently winning. A zero-vote
// poll has no winner, and neither does a tie for the maximum.
func (s LiveResultSnapshot) Leading() (int, bool) {
	if s.TotalVotes == 0 || len(s.Results) == 0 {
		return -1, false
	}

	leadIdx, ties := 0, 0
	for i, res := range s.Results {
		switch {
		case res.VoteCount > s.Results[leadIdx].VoteCount:
			leadIdx, ties = i, 0
		case i != leadIdx && res.VoteCount == s.Results[leadIdx].VoteCount:
			ties++
		}
	}
	if ties > 0 {
		return -1, false
	}
	return leadIdx, true
}

// OptionColor returns the display color of the option at index i in the
// current snapshot's result order.
func (s LiveResultSnapshot) OptionColor(i int) string {
	if lead, ok := s.Leading(); ok && i == lead {
		return leadingColor
	}
	return optionPalette[i%len(optionPalette)]
}
