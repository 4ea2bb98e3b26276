package testutil

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/bosvote/core"
	"github.com/trezcool/bosvote/core/poll"
	logsvc "github.com/trezcool/bosvote/services/logger"
	dummystore "github.com/trezcool/bosvote/storage/dummy"
)

const Token = "test-token"

// StaticToken is a fixed bosapi.TokenSource for tests.
type StaticToken string

func (t StaticToken) Token() (string, error) {
	return string(t), nil
}

// NewLogger returns a quiet core.Logger for tests.
func NewLogger() core.Logger {
	conf := &core.Config{Debug: false}
	return logsvc.NewStdLogger(log.New(io.Discard, "", 0), conf)
}

// Backend is a fake BOS polling service backed by the dummy repository.
// It enforces bearer auth and speaks the backend's wire error shapes.
type Backend struct {
	Repo *dummystore.PollRepository
	srv  *httptest.Server
}

func NewBackend(t *testing.T) *Backend {
	b := &Backend{Repo: dummystore.NewPollRepository()}

	app := echo.New()
	app.Use(b.auth)
	app.POST("/create-poll", b.createPoll)
	app.GET("/polls", b.listPolls)
	app.GET("/active-polls", b.listActivePolls)
	app.GET("/poll/:id", b.getPoll)
	app.PUT("/poll/:id", b.updatePoll)
	app.DELETE("/poll/:id", b.deletePoll)
	app.POST("/poll/:id/vote", b.vote)
	app.GET("/poll/:id/results", b.results)
	app.GET("/poll/:id/live-results", b.liveResults)
	app.GET("/statistics", b.statistics)

	b.srv = httptest.NewServer(app)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *Backend) URL() string {
	return b.srv.URL
}

// Config returns a Config pointing the API client at this backend.
func (b *Backend) Config() *core.Config {
	conf := &core.Config{Env: "TEST", TestMode: true}
	conf.API.BaseURL = b.srv.URL
	return conf
}

func (b *Backend) auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if ctx.Request().Header.Get("Authorization") != "Bearer "+Token {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"error": "user not authenticated"})
		}
		return next(ctx)
	}
}

// sendErr maps repository errors onto the backend's wire shapes.
func sendErr(ctx echo.Context, err error) error {
	switch e := errors.Cause(err).(type) {
	case *core.APIError:
		return ctx.JSON(e.StatusCode, echo.Map{"message": e.Message})
	case *core.ValidationError:
		flds := make(map[string]string, len(e.Fields))
		for _, f := range e.Fields {
			flds[f.Field] = f.Error
		}
		return ctx.JSON(http.StatusBadRequest, echo.Map{"message": e.Error(), "errors": flds})
	default:
		return ctx.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
	}
}

func (b *Backend) createPoll(ctx echo.Context) error {
	var np poll.NewPoll
	if err := ctx.Bind(&np); err != nil {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload"})
	}
	p, err := b.Repo.CreatePoll(ctx.Request().Context(), np)
	if err != nil {
		return sendErr(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (b *Backend) listPolls(ctx echo.Context) error {
	polls, err := b.Repo.QueryAllPolls(ctx.Request().Context())
	if err != nil {
		return sendErr(ctx, err)
	}
	return ctx.JSON(http.StatusOK, polls)
}

func (b *Backend) listActivePolls(ctx echo.Context) error {
	polls, err := b.Repo.QueryActivePolls(ctx.Request().Context())
	if err != nil {
		return sendErr(ctx, err)
	}
	return ctx.JSON(http.StatusOK, polls)
}

func (b *Backend) getPoll(ctx echo.Context) error {
	p, err := b.Repo.GetPoll(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return sendErr(ctx, err)
	}
	return ctx.JSON(http.StatusOK, p)
}

func (b *Backend) updatePoll(ctx echo.Context) error {
	var up poll.UpdatePoll
	if err := ctx.Bind(&up); err != nil {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload"})
	}
	p, err := b.Repo.UpdatePoll(ctx.Request().Context(), ctx.Param("id"), up)
	if err != nil {
		return sendErr(ctx, err)
	}
	return ctx.JSON(http.StatusOK, p)
}

func (b *Backend) deletePoll(ctx echo.Context) error {
	if err := b.Repo.DeletePoll(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return sendErr(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (b *Backend) vote(ctx echo.Context) error {
	var nv poll.NewVote
	if err := ctx.Bind(&nv); err != nil {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload"})
	}
	v, err := b.Repo.SubmitVote(ctx.Request().Context(), ctx.Param("id"), nv)
	if err != nil {
		return sendErr(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, v)
}

func (b *Backend) results(ctx echo.Context) error {
	res, err := b.Repo.GetResults(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return sendErr(ctx, err)
	}
	return ctx.JSON(http.StatusOK, res)
}

func (b *Backend) liveResults(ctx echo.Context) error {
	snap, err := b.Repo.GetLiveResults(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return sendErr(ctx, err)
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (b *Backend) statistics(ctx echo.Context) error {
	stats, err := b.Repo.GetStatistics(ctx.Request().Context())
	if err != nil {
		return sendErr(ctx, err)
	}
	return ctx.JSON(http.StatusOK, stats)
}
