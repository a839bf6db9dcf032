package interfaces

import "context"

// AvatarFetcher downloads avatar images. Fetch returns (nil, nil) when
// the URL points at a stock placeholder avatar that should not be
// embedded.
type AvatarFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
