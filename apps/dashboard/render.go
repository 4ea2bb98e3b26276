package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/trezcool/bosvote/core"
	"github.com/trezcool/bosvote/core/poll"
	"github.com/trezcool/bosvote/core/session"
)

const (
	ansiReset = "\033[0m"
	barWidth  = 30
)

// hex palette colors from the poll package, mapped to ANSI for the terminal
var ansiColors = map[string]string{
	"#3b82f6": "\033[34m", // blue
	"#8b5cf6": "\033[35m", // violet
	"#f59e0b": "\033[33m", // amber
	"#14b8a6": "\033[36m", // teal
	"#ef4444": "\033[31m", // red
	"#64748b": "\033[90m", // slate
	"#22c55e": "\033[32m", // green (leading)
}

func colorize(hex, s string) string {
	code, ok := ansiColors[hex]
	if !ok {
		return s
	}
	return code + s + ansiReset
}

func renderPolls(polls []poll.Poll) {
	if len(polls) == 0 {
		fmt.Println("No polls.")
		return
	}
	for _, p := range polls {
		fmt.Printf("%-12s  %-9s  %4d votes  %s\n", p.ID, p.Status, p.TotalVotes, p.Title)
	}
}

func renderActivePolls(polls []poll.ActivePoll, sess *session.Session) {
	if len(polls) == 0 {
		fmt.Println("No active polls.")
		return
	}
	for _, ap := range polls {
		marker := " "
		switch {
		case ap.UserHasVoted:
			marker = "✓"
		case poll.IsEligibleToVote(ap, sess):
			marker = "→"
		}
		fmt.Printf("%s %-12s  %s  (%s)\n", marker, ap.ID, ap.Title, poll.FormatTimeRemaining(ap.EndDate, time.Now().UTC()))
	}
}

func renderSnapshot(snap poll.LiveResultSnapshot) {
	fmt.Print("\033[H\033[2J") // clear screen; a full frame renders from one snapshot only
	fmt.Printf("%s | %s\n", snap.Title, snap.TimeRemaining(time.Now().UTC()))
	if snap.Description != "" {
		fmt.Println(snap.Description)
	}
	fmt.Println()

	lead, hasLead := snap.Leading()
	for i, res := range snap.Results {
		bar := strings.Repeat("█", int(res.Percentage/100*barWidth))
		label := res.Option
		if hasLead && i == lead {
			label += " ★"
		}
		fmt.Printf("  %-20s %s %5.1f%% (%d)\n", label, colorize(snap.OptionColor(i), bar), res.Percentage, res.VoteCount)
	}

	fmt.Printf("\n%d votes total, updated %s\n", snap.TotalVotes, snap.LastUpdated.Local().Format(time.Kitchen))
	if len(snap.RecentVotes) > 0 {
		fmt.Println("Recent votes:")
		for _, rv := range snap.RecentVotes {
			fmt.Printf("  %s (%s) → %s\n", rv.VoterName, rv.VoterRole, rv.Option)
		}
	}
}

// renderError keeps the last frame on screen and appends a banner;
// polling continues underneath.
func renderError(err error) {
	msg := err.Error()
	if core.IsUnauthorized(err) {
		msg = "login required"
	}
	fmt.Printf("\033[31m! %s\033[0m\n", msg)
}

func renderResults(res poll.Results) {
	fmt.Printf("%s [%s]\n", res.Title, res.Status)
	for _, r := range res.Results {
		fmt.Printf("  %-20s %5.1f%% (%d)\n", r.Option, r.Percentage, r.VoteCount)
	}
	fmt.Printf("%d votes total\n", res.TotalVotes)
}

func renderStatistics(stats poll.Statistics) {
	fmt.Printf("Polls: %d total, %d active, %d completed\n", stats.TotalPolls, stats.ActivePolls, stats.CompletedPolls)
	for _, sc := range stats.Breakdown {
		fmt.Printf("  %-9s %4d polls  %5d votes\n", sc.Status, sc.Count, sc.Votes)
	}
}
