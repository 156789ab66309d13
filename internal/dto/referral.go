package dto

import (
	"github.com/coinadmin/backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// NetworkLevelResponse is one breadth-first level group.
type NetworkLevelResponse struct {
	Level int            `json:"level"`
	Users []UserResponse `json:"users"`
}

// NetworkStatisticsResponse aggregates a bounded network view.
type NetworkStatisticsResponse struct {
	TotalReferrals        int             `json:"totalReferrals"`
	TotalReferralEarnings decimal.Decimal `json:"totalReferralEarnings"`
	NetworkLevels         int             `json:"networkLevels"`
}

// ReferralNetworkResponse wraps the level-grouped network of one user.
type ReferralNetworkResponse struct {
	User       UserResponse              `json:"user"`
	Network    []NetworkLevelResponse    `json:"network"`
	Statistics NetworkStatisticsResponse `json:"statistics"`
}

// ToReferralNetworkResponse converts a domain network view.
func ToReferralNetworkResponse(n *domain.ReferralNetwork) ReferralNetworkResponse {
	levels := make([]NetworkLevelResponse, len(n.Levels))
	for i, lvl := range n.Levels {
		levels[i] = NetworkLevelResponse{
			Level: lvl.Level,
			Users: ToUserResponses(lvl.Users),
		}
	}
	return ReferralNetworkResponse{
		User:    ToUserResponse(&n.Root),
		Network: levels,
		Statistics: NetworkStatisticsResponse{
			TotalReferrals:        n.Statistics.TotalReferrals,
			TotalReferralEarnings: n.Statistics.TotalReferralEarnings,
			NetworkLevels:         n.Statistics.NetworkLevels,
		},
	}
}

// TreeNodeResponse is one node of the referral tree rendering.
type TreeNodeResponse struct {
	UserID   string             `json:"id"`
	Username string             `json:"username"`
	Name     string             `json:"name"`
	Balance  BalancePayload     `json:"balance"`
	Status   string             `json:"status"`
	Level    int                `json:"level"`
	Children []TreeNodeResponse `json:"children"`
}

// ToTreeNodeResponse converts a domain tree recursively.
func ToTreeNodeResponse(node *domain.ReferralTreeNode) TreeNodeResponse {
	children := make([]TreeNodeResponse, len(node.Children))
	for i, child := range node.Children {
		children[i] = ToTreeNodeResponse(child)
	}
	return TreeNodeResponse{
		UserID:   node.User.UserID,
		Username: node.User.Username,
		Name:     node.User.FullName(),
		Balance:  BalancePayload{Coins: node.User.Balance.Coins, Usd: node.User.Balance.Usd},
		Status:   string(node.User.Status),
		Level:    node.Level,
		Children: children,
	}
}

// ReferralTreeResponse wraps the tree rendering.
type ReferralTreeResponse struct {
	Tree TreeNodeResponse `json:"tree"`
}

// ReferredBySummary identifies a user's referrer in listings.
type ReferredBySummary struct {
	UserID    string `json:"userID"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// NetworkListUserResponse is one row of the networks overview listing.
type NetworkListUserResponse struct {
	UserResponse
	Referrer *ReferredBySummary `json:"referrer,omitempty"`
}

// ListNetworksResponse wraps the networks overview listing.
type ListNetworksResponse struct {
	Users      []NetworkListUserResponse `json:"users"`
	Pagination Pagination                `json:"pagination"`
}

// ReferralStatisticsResponse wraps the platform-wide referral report.
type ReferralStatisticsResponse struct {
	MonthlyStats struct {
		NewReferrals   int64 `json:"newReferrals"`
		TotalReferrals int64 `json:"totalReferrals"`
	} `json:"monthlyStats"`
	LevelDistribution []domain.LevelCount   `json:"levelDistribution"`
	TopReferrers      []TopReferrerResponse `json:"topReferrers"`
}

// TopReferrerResponse is one row of the top-referrers report.
type TopReferrerResponse struct {
	UserID        string         `json:"userID"`
	Username      string         `json:"username"`
	FirstName     string         `json:"firstName"`
	LastName      string         `json:"lastName"`
	ReferralCount int64          `json:"referralCount"`
	Balance       BalancePayload `json:"balance"`
}
