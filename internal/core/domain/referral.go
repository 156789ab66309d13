package domain

import "github.com/shopspring/decimal"

// ReferralBonusRate is the fraction of a direct referee's coin balance
// counted as estimated earnings for the referrer. The network statistic is a
// point-in-time estimate from current balances, not a replay of
// referral_bonus ledger entries, and can drift from actually paid bonuses.
var ReferralBonusRate = decimal.NewFromFloat(0.1)

// TreeFanOutCap bounds the number of children rendered per tree node.
// Children beyond the cap are silently truncated, never an error.
const TreeFanOutCap = 10

const (
	// DefaultNetworkLevels is the level bound applied when callers do not
	// request one.
	DefaultNetworkLevels = 5

	// DefaultTreeLevels is the depth bound applied when callers do not
	// request one.
	DefaultTreeLevels = 3

	// MaxNetworkLevels caps caller-requested bounds.
	MaxNetworkLevels = 10
)

// NetworkLevel is one breadth-first frontier of a referral network: the
// users exactly Level hops below the queried root. The root itself is level
// 0 and is not part of any group.
type NetworkLevel struct {
	Level int    `json:"level"`
	Users []User `json:"users"`
}

// NetworkStatistics aggregates a bounded referral network.
type NetworkStatistics struct {
	TotalReferrals        int             `json:"totalReferrals"`
	TotalReferralEarnings decimal.Decimal `json:"totalReferralEarnings"`
	NetworkLevels         int             `json:"networkLevels"`
}

// ReferralNetwork is the level-grouped view of a user's descendants plus
// aggregate statistics.
type ReferralNetwork struct {
	Root       User              `json:"root"`
	Levels     []NetworkLevel    `json:"levels"`
	Statistics NetworkStatistics `json:"statistics"`
}

// ReferralTreeNode is one node of the depth-bounded referral tree. The root
// carries Level 0; no node exceeds the requested maximum level.
type ReferralTreeNode struct {
	User     User                `json:"user"`
	Level    int                 `json:"level"`
	Children []*ReferralTreeNode `json:"children"`
}

// LevelCount is one row of the referral level distribution.
type LevelCount struct {
	Level int   `json:"level"`
	Count int64 `json:"count"`
}

// TopReferrer is one row of the top-referrers report: a user ranked by the
// number of their direct referees.
type TopReferrer struct {
	User          User  `json:"user"`
	ReferralCount int64 `json:"referralCount"`
}

// ReferralStatistics is the platform-wide referral report.
type ReferralStatistics struct {
	NewReferralsThisMonth int64         `json:"newReferralsThisMonth"`
	TotalReferrals        int64         `json:"totalReferrals"`
	LevelDistribution     []LevelCount  `json:"levelDistribution"`
	TopReferrers          []TopReferrer `json:"topReferrers"`
}
