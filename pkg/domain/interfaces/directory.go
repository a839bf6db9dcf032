package interfaces

import (
	"context"

	"github.com/secmon-lab/rolodex/pkg/domain/model"
)

// Directory fetches the raw workspace member list from the remote API
type Directory interface {
	ListMembers(ctx context.Context) (*model.Snapshot, error)
}
