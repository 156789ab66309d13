package repositories

import (
	"context"

	"github.com/coinadmin/backend/internal/core/domain"
)

// NetworkCache caches rendered referral network views. Implementations are
// best-effort: a miss and an error are both reported as (nil, error) and the
// caller falls through to the source of truth.
type NetworkCache interface {
	// GetNetwork returns a cached level-grouped network view.
	GetNetwork(ctx context.Context, rootID string, levels int) (*domain.ReferralNetwork, error)

	// SetNetwork caches a level-grouped network view.
	SetNetwork(ctx context.Context, rootID string, levels int, network *domain.ReferralNetwork) error

	// GetTree returns a cached tree view.
	GetTree(ctx context.Context, rootID string, maxLevels int) (*domain.ReferralTreeNode, error)

	// SetTree caches a tree view.
	SetTree(ctx context.Context, rootID string, maxLevels int, tree *domain.ReferralTreeNode) error

	// InvalidateUser drops all cached views rooted at the given users.
	InvalidateUser(ctx context.Context, userIDs ...string) error
}
