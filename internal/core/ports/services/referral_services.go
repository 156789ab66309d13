package services

import (
	"context"

	"github.com/coinadmin/backend/internal/core/domain"
	portsrepo "github.com/coinadmin/backend/internal/core/ports/repositories"
)

// ReferralSvcFacade builds bounded views of the referral graph.
type ReferralSvcFacade interface {
	// GetReferralNetwork returns the level-grouped descendants of rootID
	// down to the given number of levels, with aggregate statistics. The
	// root is level 0 and is not counted among its own descendants.
	GetReferralNetwork(ctx context.Context, rootID string, levels int) (*domain.ReferralNetwork, error)

	// GetReferralTree returns the depth-first tree rooted at rootID with
	// level 0 at the root, stopping at maxLevels and capping fan-out per
	// node.
	GetReferralTree(ctx context.Context, rootID string, maxLevels int) (*domain.ReferralTreeNode, error)

	// ListReferralNetworks retrieves a page of users with their referrer
	// resolved, for the networks overview listing.
	ListReferralNetworks(ctx context.Context, params portsrepo.ListUsersParams) ([]domain.User, map[string]domain.User, int64, error)

	// GetReferralStatistics returns the platform-wide referral report.
	GetReferralStatistics(ctx context.Context) (*domain.ReferralStatistics, error)

	// ValidateReferrerAttachment walks the ancestor chain of the proposed
	// referrer and rejects attachments that would create a cycle or
	// self-reference with apperrors.ErrCycle.
	ValidateReferrerAttachment(ctx context.Context, candidateID, referrerID string) error
}
