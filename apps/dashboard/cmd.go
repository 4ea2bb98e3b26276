package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/trezcool/bosvote/core"
	"github.com/trezcool/bosvote/core/poll"
	"github.com/trezcool/bosvote/core/session"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf     *core.Config
	logger   core.Logger
	resolver *session.Resolver
	svc      *poll.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  polls                                         - list all polls")
	fmt.Println("  active                                        - list polls you can vote on")
	fmt.Println("  vote -poll ID -option LABEL [-comment TEXT]   - cast a vote")
	fmt.Println("  watch -poll ID                                - watch live results (Ctrl-C to stop)")
	fmt.Println("  results -poll ID                              - show final results")
	fmt.Println("  stats                                         - show the polls overview")
	fmt.Println("  create -title T -options \"A,B\" -start RFC3339 -end RFC3339 -roles \"r1,r2\" - create a poll")
	fmt.Println("  delete -poll ID                               - delete a poll")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	ctx, cancel := context.WithTimeout(context.Background(), cli.conf.API.RequestTimeout+time.Second)
	defer cancel()

	switch args[1] {
	case "polls":
		return cli.listPolls(ctx)
	case "active":
		return cli.listActive(ctx)
	case "vote":
		voteCmd := flag.NewFlagSet("vote", flag.ExitOnError)
		pollID := voteCmd.String("poll", "", "The poll id.")
		option := voteCmd.String("option", "", "The option to vote for; must be one of the poll's options.")
		comment := voteCmd.String("comment", "", "An optional comment.")
		if err := voteCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *pollID == "" || *option == "" {
			voteCmd.Usage()
			return errHelp
		}
		return cli.vote(ctx, *pollID, poll.NewVote{OptionSelected: *option, Comment: *comment})
	case "watch":
		watchCmd := flag.NewFlagSet("watch", flag.ExitOnError)
		pollID := watchCmd.String("poll", "", "The poll id.")
		if err := watchCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *pollID == "" {
			watchCmd.Usage()
			return errHelp
		}
		return cli.watch(*pollID)
	case "results":
		resultsCmd := flag.NewFlagSet("results", flag.ExitOnError)
		pollID := resultsCmd.String("poll", "", "The poll id.")
		if err := resultsCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *pollID == "" {
			resultsCmd.Usage()
			return errHelp
		}
		return cli.results(ctx, *pollID)
	case "stats":
		return cli.stats(ctx)
	case "create":
		createCmd := flag.NewFlagSet("create", flag.ExitOnError)
		title := createCmd.String("title", "", "The poll title.")
		desc := createCmd.String("description", "", "An optional description.")
		options := createCmd.String("options", "", "Comma-separated option labels (at least 2).")
		start := createCmd.String("start", "", "Start time, RFC3339.")
		end := createCmd.String("end", "", "End time, RFC3339.")
		roles := createCmd.String("roles", session.RoleMember, "Comma-separated eligible voter roles.")
		anonymous := createCmd.Bool("anonymous", false, "Hide voter identities in results.")
		multiple := createCmd.Bool("multiple", false, "Allow re-voting; a later vote supersedes the prior one.")
		if err := createCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.create(ctx, *title, *desc, *options, *start, *end, *roles, *anonymous, *multiple)
	case "delete":
		deleteCmd := flag.NewFlagSet("delete", flag.ExitOnError)
		pollID := deleteCmd.String("poll", "", "The poll id.")
		if err := deleteCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *pollID == "" {
			deleteCmd.Usage()
			return errHelp
		}
		return cli.svc.Delete(ctx, *pollID)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) listPolls(ctx context.Context) error {
	polls, err := cli.svc.ListAll(ctx)
	if err != nil {
		if core.IsUnauthorized(err) {
			return errors.New("you need to log in to view polls")
		}
		return err
	}
	renderPolls(polls)
	return nil
}

func (cli *commandLine) listActive(ctx context.Context) error {
	sess, err := cli.resolver.Resolve()
	if err != nil {
		return err
	}
	polls, err := cli.svc.ListActive(ctx)
	if err != nil {
		return err
	}
	renderActivePolls(polls, sess)
	return nil
}

func (cli *commandLine) vote(ctx context.Context, pollID string, nv poll.NewVote) error {
	p, err := cli.svc.Get(ctx, pollID)
	if err != nil {
		return err
	}
	if err := poll.CheckVote(p, nv); err != nil {
		return err
	}

	if _, err := cli.svc.CastVote(ctx, pollID, nv); err != nil {
		// the server's message is surfaced verbatim; no automatic retry
		return err
	}
	fmt.Println("Vote recorded.")

	// re-fetch the active list so user_has_voted reflects the new state
	polls, err := cli.svc.ListActive(ctx)
	if err != nil {
		return nil // the vote itself succeeded; stale list is tolerable
	}
	sess, _ := cli.resolver.Resolve()
	renderActivePolls(polls, sess)
	return nil
}

func (cli *commandLine) watch(pollID string) error {
	poller := poll.NewPoller(cli.svc, cli.logger, poll.PollerOptions{
		Interval:   cli.conf.API.LiveInterval,
		OnSnapshot: renderSnapshot,
		OnError:    renderError,
	})
	poller.Select(pollID)
	defer poller.Deselect()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	return nil
}

func (cli *commandLine) results(ctx context.Context, pollID string) error {
	res, err := cli.svc.Results(ctx, pollID)
	if err != nil {
		return err
	}
	renderResults(res)
	return nil
}

func (cli *commandLine) stats(ctx context.Context) error {
	stats, err := cli.svc.Statistics(ctx)
	if err != nil {
		if core.IsForbidden(err) {
			return errors.New("access denied: the overview is for controllers only")
		}
		return err
	}
	renderStatistics(stats)
	return nil
}

func (cli *commandLine) create(ctx context.Context, title, desc, options, start, end, roles string, anonymous, multiple bool) error {
	startAt, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return fmt.Errorf("invalid -start: %v", err)
	}
	endAt, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return fmt.Errorf("invalid -end: %v", err)
	}

	np := poll.NewPoll{
		Title:              title,
		Description:        desc,
		Options:            splitList(options),
		StartDate:          startAt.UTC(),
		EndDate:            endAt.UTC(),
		EligibleVoters:     splitList(roles),
		IsAnonymous:        anonymous,
		AllowMultipleVotes: multiple,
	}
	p, err := cli.svc.Create(ctx, np)
	if err != nil {
		return err
	}
	fmt.Printf("Created poll %s (%s)\n", p.ID, p.Status)
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
