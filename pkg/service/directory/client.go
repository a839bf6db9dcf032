package directory

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/secmon-lab/rolodex/pkg/domain/model"
	"github.com/secmon-lab/rolodex/pkg/utils/logging"
	"github.com/secmon-lab/rolodex/pkg/utils/safe"
)

// DefaultBaseURL is the Slack Web API endpoint
const DefaultBaseURL = "https://slack.com/api"

var (
	// ErrBadStatus means users.list answered with a non-2xx HTTP status
	ErrBadStatus = goerr.New("users.list request failed")
	// ErrAPIError means users.list answered ok:false
	ErrAPIError = goerr.New("users.list returned an error")
)

// Client fetches the workspace member directory
type Client struct {
	token   string
	baseURL string
	httpc   *http.Client
	api     *slack.Client
}

// Option is a functional option for Client configuration
type Option func(*Client)

// WithBaseURL overrides the API endpoint, used by tests
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// New creates a directory client with the provided API token
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, goerr.New("Slack API token is required")
	}

	c := &Client{
		token:   token,
		baseURL: DefaultBaseURL,
		httpc:   http.DefaultClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.api = slack.New(token,
		slack.OptionAPIURL(c.baseURL+"/"),
		slack.OptionHTTPClient(c.httpc),
	)

	return c, nil
}

// ListMembers fetches the full member list. The token is validated via
// auth.test first, then users.list is fetched as a raw payload: the
// snapshot cache must keep the response as served, including profile
// fields (image_1024, is_custom_image) that the typed client drops.
// There are no retries; any failure aborts the run.
func (c *Client) ListMembers(ctx context.Context) (*model.Snapshot, error) {
	auth, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to authenticate with Slack")
	}
	logging.From(ctx).Debug("Authenticated with Slack", "team", auth.Team, "user", auth.User)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users.list", nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build users.list request")
	}
	q := req.URL.Query()
	q.Set("token", c.token)
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call users.list")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, goerr.Wrap(ErrBadStatus, "unexpected response status", goerr.V("status", resp.StatusCode))
	}

	var payload struct {
		OK      bool              `json:"ok"`
		Error   string            `json:"error"`
		Members []model.RawMember `json:"members"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, goerr.Wrap(err, "failed to decode users.list response")
	}
	if !payload.OK {
		return nil, goerr.Wrap(ErrAPIError, "users.list was not ok", goerr.V("error", payload.Error))
	}

	return &model.Snapshot{Members: payload.Members}, nil
}
