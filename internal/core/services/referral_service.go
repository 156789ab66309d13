package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/coinadmin/backend/internal/apperrors"
	"github.com/coinadmin/backend/internal/core/domain"
	portsrepo "github.com/coinadmin/backend/internal/core/ports/repositories"
	portssvc "github.com/coinadmin/backend/internal/core/ports/services"
	"github.com/coinadmin/backend/internal/middleware"
)

// referralService builds bounded views of the referral graph.
type referralService struct {
	userRepo      portsrepo.UserRepository
	reportingRepo portsrepo.ReportingRepository
	cache         portsrepo.NetworkCache
}

// NewReferralService creates the referral service. Cache is optional; pass
// nil to disable it.
func NewReferralService(
	userRepo portsrepo.UserRepository,
	reportingRepo portsrepo.ReportingRepository,
	cache portsrepo.NetworkCache,
) portssvc.ReferralSvcFacade {
	return &referralService{
		userRepo:      userRepo,
		reportingRepo: reportingRepo,
		cache:         cache,
	}
}

var _ portssvc.ReferralSvcFacade = (*referralService)(nil)

// clampLevels normalizes a requested level bound.
func clampLevels(requested, fallback int) int {
	if requested <= 0 {
		return fallback
	}
	if requested > domain.MaxNetworkLevels {
		return domain.MaxNetworkLevels
	}
	return requested
}

// GetReferralNetwork builds the level-grouped view of rootID's descendants.
// The root is level 0; the level-N group holds the users exactly N hops
// below it, in creation order within each level.
func (s *referralService) GetReferralNetwork(ctx context.Context, rootID string, levels int) (*domain.ReferralNetwork, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("root_id", rootID))
	levels = clampLevels(levels, domain.DefaultNetworkLevels)

	if s.cache != nil {
		if cached, err := s.cache.GetNetwork(ctx, rootID, levels); err == nil && cached != nil {
			return cached, nil
		}
	}

	root, err := s.userRepo.FindUserByID(ctx, rootID)
	if err != nil {
		return nil, fmt.Errorf("failed to load network root %s: %w", rootID, err)
	}

	network := &domain.ReferralNetwork{Root: *root}

	frontier := []string{root.UserID}
	for level := 1; level <= levels; level++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		children, err := s.userRepo.FindUsersByReferrers(ctx, frontier)
		if err != nil {
			return nil, fmt.Errorf("failed to expand referral level %d under %s: %w", level, rootID, err)
		}
		if len(children) == 0 {
			break
		}
		network.Levels = append(network.Levels, domain.NetworkLevel{Level: level, Users: children})
		frontier = frontier[:0]
		for _, child := range children {
			frontier = append(frontier, child.UserID)
		}
	}

	network.Statistics = s.networkStatistics(network)

	if s.cache != nil {
		if err := s.cache.SetNetwork(ctx, rootID, levels, network); err != nil {
			logger.Warn("Failed to cache network view", slog.String("error", err.Error()))
		}
	}

	return network, nil
}

// networkStatistics aggregates a built network: total descendants across
// all levels, and the estimated earnings from direct referees' current coin
// balances at the fixed bonus rate.
func (s *referralService) networkStatistics(network *domain.ReferralNetwork) domain.NetworkStatistics {
	stats := domain.NetworkStatistics{
		TotalReferralEarnings: decimal.Zero,
		NetworkLevels:         len(network.Levels),
	}
	for _, lvl := range network.Levels {
		stats.TotalReferrals += len(lvl.Users)
	}
	if len(network.Levels) > 0 {
		for _, direct := range network.Levels[0].Users {
			stats.TotalReferralEarnings = stats.TotalReferralEarnings.Add(direct.Balance.Coins.Mul(domain.ReferralBonusRate))
		}
	}
	return stats
}

// GetReferralTree builds the depth-bounded tree rooted at rootID. Traversal
// uses an explicit work stack carrying (node, level) pairs. Nodes at the
// maximum level are included but not expanded; fan-out per node is capped
// and the overflow silently truncated.
func (s *referralService) GetReferralTree(ctx context.Context, rootID string, maxLevels int) (*domain.ReferralTreeNode, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("root_id", rootID))
	maxLevels = clampLevels(maxLevels, domain.DefaultTreeLevels)

	if s.cache != nil {
		if cached, err := s.cache.GetTree(ctx, rootID, maxLevels); err == nil && cached != nil {
			return cached, nil
		}
	}

	root, err := s.userRepo.FindUserByID(ctx, rootID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tree root %s: %w", rootID, err)
	}

	tree := &domain.ReferralTreeNode{User: *root, Level: 0, Children: []*domain.ReferralTreeNode{}}

	stack := []*domain.ReferralTreeNode{tree}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.Level >= maxLevels {
			continue
		}

		children, err := s.userRepo.FindUsersByReferrer(ctx, node.User.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to expand tree node %s: %w", node.User.UserID, err)
		}
		if len(children) > domain.TreeFanOutCap {
			children = children[:domain.TreeFanOutCap]
		}
		for i := range children {
			child := &domain.ReferralTreeNode{
				User:     children[i],
				Level:    node.Level + 1,
				Children: []*domain.ReferralTreeNode{},
			}
			node.Children = append(node.Children, child)
			stack = append(stack, child)
		}
	}

	if s.cache != nil {
		if err := s.cache.SetTree(ctx, rootID, maxLevels, tree); err != nil {
			logger.Warn("Failed to cache tree view", slog.String("error", err.Error()))
		}
	}

	return tree, nil
}

// ListReferralNetworks retrieves a page of users with their referrers
// resolved for the networks overview.
func (s *referralService) ListReferralNetworks(ctx context.Context, params portsrepo.ListUsersParams) ([]domain.User, map[string]domain.User, int64, error) {
	users, total, err := s.userRepo.ListUsers(ctx, params)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to list referral networks: %w", err)
	}

	referrerIDs := make([]string, 0, len(users))
	seen := make(map[string]bool, len(users))
	for _, u := range users {
		if u.ReferredBy != "" && !seen[u.ReferredBy] {
			seen[u.ReferredBy] = true
			referrerIDs = append(referrerIDs, u.ReferredBy)
		}
	}

	referrers := map[string]domain.User{}
	if len(referrerIDs) > 0 {
		referrers, err = s.userRepo.FindUsersByIDs(ctx, referrerIDs)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("failed to resolve referrers: %w", err)
		}
	}

	return users, referrers, total, nil
}

// GetReferralStatistics returns the platform-wide referral report.
func (s *referralService) GetReferralStatistics(ctx context.Context) (*domain.ReferralStatistics, error) {
	start, end := currentMonthWindow()

	newThisMonth, err := s.reportingRepo.CountReferredUsers(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to count new referrals: %w", err)
	}
	total, err := s.reportingRepo.CountReferredUsers(ctx, zeroTime, zeroTime)
	if err != nil {
		return nil, fmt.Errorf("failed to count referrals: %w", err)
	}
	levels, err := s.reportingRepo.GetLevelDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load level distribution: %w", err)
	}
	top, err := s.reportingRepo.FindTopReferrers(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to load top referrers: %w", err)
	}

	return &domain.ReferralStatistics{
		NewReferralsThisMonth: newThisMonth,
		TotalReferrals:        total,
		LevelDistribution:     levels,
		TopReferrers:          top,
	}, nil
}

// ValidateReferrerAttachment rejects attachments that would create a cycle.
// The chain of ancestors from the proposed referrer to the root is walked to
// confirm the candidate does not appear among them.
func (s *referralService) ValidateReferrerAttachment(ctx context.Context, candidateID, referrerID string) error {
	if candidateID == referrerID {
		return fmt.Errorf("%w: user %s cannot refer themselves", apperrors.ErrCycle, candidateID)
	}

	currentID := referrerID
	for depth := 0; currentID != ""; depth++ {
		if depth >= ancestorWalkLimit {
			return fmt.Errorf("%w: referrer chain of %s exceeds %d ancestors", apperrors.ErrCycle, referrerID, ancestorWalkLimit)
		}
		current, err := s.userRepo.FindUserByID(ctx, currentID)
		if err != nil {
			return fmt.Errorf("failed to walk referrer chain at %s: %w", currentID, err)
		}
		if current.ReferredBy == candidateID {
			return fmt.Errorf("%w: user %s is an ancestor of proposed referrer %s", apperrors.ErrCycle, candidateID, referrerID)
		}
		currentID = current.ReferredBy
	}

	return nil
}
