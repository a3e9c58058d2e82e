// persistence/interface.go
package persistence

import (
	"context"
	"errors"

	"github.com/wfunc/blackjack/models"
)

// Database stores the JSON state of every chain hosted by the node and an
// append-only log of finished games.
type Database interface {
	// LoadChainState decodes the saved state of chainID into out. It returns
	// ErrRecordNotFound when the chain has never been saved.
	LoadChainState(ctx context.Context, chainID string, out any) error
	SaveChainState(ctx context.Context, chainID, role string, state any) error
	SaveGameRecord(ctx context.Context, record models.GameRecord) error
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = errors.New("record not found")
)
