package bosapi

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/bosvote/core"
)

// TokenSource provides the bearer token of the current session.
// session.Resolver satisfies it.
type TokenSource interface {
	Token() (string, error)
}

// Client talks REST to the BOS polling backend. It owns nothing but
// transport concerns: base URL, bearer injection, request IDs and the
// mapping of HTTP failures onto the core error taxonomy.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  core.Logger
}

func NewClient(conf *core.Config, tokens TokenSource, logger core.Logger) *Client {
	return &Client{
		baseURL: conf.API.BaseURL,
		http:    &http.Client{Timeout: conf.API.RequestTimeout},
		tokens:  tokens,
		logger:  logger,
	}
}

// errorBody is the backend's failure payload. Older routes use "error",
// newer ones "message"; field maps come back under "errors".
type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "bosapi: encoding request body")
		}
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return errors.Wrap(err, "bosapi: building request")
	}

	token, err := c.tokens.Token()
	if err != nil || token == "" {
		// no point hitting the network; the server would say the same
		return core.NewAPIError(http.StatusUnauthorized, "login required", "")
	}
	reqID := uuid.New().String()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-Id", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "bosapi: "+method+" "+path)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.apiError(resp, reqID)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(err, "bosapi: decoding response")
		}
	}
	return nil
}

func (c *Client) apiError(resp *http.Response, reqID string) error {
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Debug("bosapi: undecodable error body", err, map[string]interface{}{"request_id": reqID})
	}

	if resp.StatusCode == http.StatusBadRequest && len(body.Errors) > 0 {
		flds := make([]core.FieldError, 0, len(body.Errors))
		for field, msg := range body.Errors {
			flds = append(flds, core.FieldError{Field: field, Error: msg})
		}
		return core.NewValidationError(errors.New(body.text()), flds...)
	}
	return core.NewAPIError(resp.StatusCode, body.text(), reqID)
}
