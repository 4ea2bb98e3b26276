package bosapi

import (
	"context"
	"net/http"

	"github.com/trezcool/bosvote/core/poll"
)

var _ poll.Repository = (*Client)(nil) // interface compliance check

func (c *Client) QueryAllPolls(ctx context.Context) ([]poll.Poll, error) {
	var polls []poll.Poll
	if err := c.do(ctx, http.MethodGet, "/polls", nil, &polls); err != nil {
		return nil, err
	}
	return polls, nil
}

func (c *Client) QueryActivePolls(ctx context.Context) ([]poll.ActivePoll, error) {
	var polls []poll.ActivePoll
	if err := c.do(ctx, http.MethodGet, "/active-polls", nil, &polls); err != nil {
		return nil, err
	}
	return polls, nil
}

func (c *Client) GetPoll(ctx context.Context, id string) (poll.Poll, error) {
	var p poll.Poll
	if err := c.do(ctx, http.MethodGet, "/poll/"+id, nil, &p); err != nil {
		return poll.Poll{}, err
	}
	return p, nil
}

func (c *Client) CreatePoll(ctx context.Context, np poll.NewPoll) (poll.Poll, error) {
	var p poll.Poll
	if err := c.do(ctx, http.MethodPost, "/create-poll", np, &p); err != nil {
		return poll.Poll{}, err
	}
	return p, nil
}

func (c *Client) UpdatePoll(ctx context.Context, id string, up poll.UpdatePoll) (poll.Poll, error) {
	var p poll.Poll
	if err := c.do(ctx, http.MethodPut, "/poll/"+id, up, &p); err != nil {
		return poll.Poll{}, err
	}
	return p, nil
}

func (c *Client) DeletePoll(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/poll/"+id, nil, nil)
}

func (c *Client) SubmitVote(ctx context.Context, pollID string, nv poll.NewVote) (poll.Vote, error) {
	var v poll.Vote
	if err := c.do(ctx, http.MethodPost, "/poll/"+pollID+"/vote", nv, &v); err != nil {
		return poll.Vote{}, err
	}
	return v, nil
}

func (c *Client) GetResults(ctx context.Context, pollID string) (poll.Results, error) {
	var res poll.Results
	if err := c.do(ctx, http.MethodGet, "/poll/"+pollID+"/results", nil, &res); err != nil {
		return poll.Results{}, err
	}
	return res, nil
}

func (c *Client) GetLiveResults(ctx context.Context, pollID string) (poll.LiveResultSnapshot, error) {
	var snap poll.LiveResultSnapshot
	if err := c.do(ctx, http.MethodGet, "/poll/"+pollID+"/live-results", nil, &snap); err != nil {
		return poll.LiveResultSnapshot{}, err
	}
	return snap, nil
}

func (c *Client) GetStatistics(ctx context.Context) (poll.Statistics, error) {
	var stats poll.Statistics
	if err := c.do(ctx, http.MethodGet, "/statistics", nil, &stats); err != nil {
		return poll.Statistics{}, err
	}
	return stats, nil
}
