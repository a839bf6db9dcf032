package avatar

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/rolodex/pkg/utils/safe"
)

// placeholderMarker appears in the URL of Slack's generated default
// avatars. Those images are stock art and are never embedded.
const placeholderMarker = "/a.slack-edge.com/df10d/img/avatars/ava_"

// Fetcher downloads avatar images for embedding into contact cards
type Fetcher struct {
	httpc *http.Client
}

// Option is a functional option for Fetcher configuration
type Option func(*Fetcher)

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(httpc *http.Client) Option {
	return func(f *Fetcher) {
		f.httpc = httpc
	}
}

// New creates an avatar fetcher
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		httpc: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// IsPlaceholder reports whether the URL points at a stock default
// avatar.
func IsPlaceholder(url string) bool {
	return strings.Contains(url, placeholderMarker)
}

// Fetch downloads the avatar and returns its raw bytes. It returns
// (nil, nil) when the URL is empty or resolves to a placeholder avatar,
// checked both before the request and against the final URL after
// redirects. Network failures propagate to the caller unretried.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if rawURL == "" || IsPlaceholder(rawURL) {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build avatar request", goerr.V("url", rawURL))
	}

	resp, err := f.httpc.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download avatar", goerr.V("url", rawURL))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, goerr.New("unexpected avatar response status",
			goerr.V("status", resp.StatusCode), goerr.V("url", rawURL))
	}

	// A custom avatar URL can redirect to a default one
	if resp.Request != nil && resp.Request.URL != nil && IsPlaceholder(resp.Request.URL.String()) {
		return nil, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read avatar body", goerr.V("url", rawURL))
	}

	return data, nil
}

// Encode converts raw image bytes to the base64 form embedded in a
// contact card.
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
