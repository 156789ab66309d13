package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/coinadmin/backend/internal/apperrors"
	portssvc "github.com/coinadmin/backend/internal/core/ports/services"
	"github.com/coinadmin/backend/internal/dto"
	"github.com/coinadmin/backend/internal/middleware"
)

// referralHandler handles referral network and tree requests.
type referralHandler struct {
	referralService portssvc.ReferralSvcFacade
	userService     portssvc.UserSvcFacade
}

func newReferralHandler(rs portssvc.ReferralSvcFacade, us portssvc.UserSvcFacade) *referralHandler {
	return &referralHandler{referralService: rs, userService: us}
}

// registerReferralRoutes registers routes related to the referral graph.
func registerReferralRoutes(rg *gin.RouterGroup, rs portssvc.ReferralSvcFacade, us portssvc.UserSvcFacade) {
	h := newReferralHandler(rs, us)

	referral := rg.Group("/referral")
	{
		referral.GET("/networks", h.listNetworks)
		referral.GET("/statistics", h.getStatistics)
		referral.GET("/user/:userID", h.getNetwork)
		referral.GET("/tree/:userID", h.getTree)
	}
}

// listNetworks godoc
// @Summary List referral networks
// @Description Lists users with their referrer resolved, for the networks overview
// @Tags referral
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Param search query string false "Match username, name or email"
// @Success 200 {object} dto.ListNetworksResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /api/referral/networks [get]
func (h *referralHandler) listNetworks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	users, referrers, total, err := h.referralService.ListReferralNetworks(c.Request.Context(), toRepoListParams(params, ""))
	if err != nil {
		logger.Error("Failed to list networks", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list networks"})
		return
	}

	rows := make([]dto.NetworkListUserResponse, len(users))
	for i := range users {
		rows[i] = dto.NetworkListUserResponse{UserResponse: dto.ToUserResponse(&users[i])}
		if ref, ok := referrers[users[i].ReferredBy]; ok {
			rows[i].Referrer = &dto.ReferredBySummary{
				UserID:    ref.UserID,
				Username:  ref.Username,
				FirstName: ref.FirstName,
				LastName:  ref.LastName,
			}
		}
	}

	c.JSON(http.StatusOK, dto.ListNetworksResponse{
		Users:      rows,
		Pagination: dto.NewPagination(params.Page, params.Limit, total),
	})
}

// getNetwork godoc
// @Summary Get a user's referral network
// @Description Returns the level-grouped descendants of the user with aggregate statistics
// @Tags referral
// @Produce json
// @Param userID path string true "User ID"
// @Param levels query int false "Level bound" default(5)
// @Success 200 {object} dto.ReferralNetworkResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /api/referral/user/{userID} [get]
func (h *referralHandler) getNetwork(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")
	levels, _ := strconv.Atoi(c.DefaultQuery("levels", "0"))

	network, err := h.referralService.GetReferralNetwork(c.Request.Context(), userID, levels)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			logger.Error("Failed to build network", slog.String("user_id", userID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build referral network"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToReferralNetworkResponse(network))
}

// getTree godoc
// @Summary Get a user's referral tree
// @Description Returns the depth-bounded tree rooted at the user, capping children per node
// @Tags referral
// @Produce json
// @Param userID path string true "User ID"
// @Param maxLevels query int false "Depth bound" default(3)
// @Success 200 {object} dto.ReferralTreeResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /api/referral/tree/{userID} [get]
func (h *referralHandler) getTree(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")
	maxLevels, _ := strconv.Atoi(c.DefaultQuery("maxLevels", "0"))

	tree, err := h.referralService.GetReferralTree(c.Request.Context(), userID, maxLevels)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			logger.Error("Failed to build tree", slog.String("user_id", userID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build referral tree"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ReferralTreeResponse{Tree: dto.ToTreeNodeResponse(tree)})
}

// getStatistics godoc
// @Summary Get the platform-wide referral report
// @Tags referral
// @Produce json
// @Success 200 {object} dto.ReferralStatisticsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /api/referral/statistics [get]
func (h *referralHandler) getStatistics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stats, err := h.referralService.GetReferralStatistics(c.Request.Context())
	if err != nil {
		logger.Error("Failed to build referral statistics", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build referral statistics"})
		return
	}

	var resp dto.ReferralStatisticsResponse
	resp.MonthlyStats.NewReferrals = stats.NewReferralsThisMonth
	resp.MonthlyStats.TotalReferrals = stats.TotalReferrals
	resp.LevelDistribution = stats.LevelDistribution
	resp.TopReferrers = make([]dto.TopReferrerResponse, len(stats.TopReferrers))
	for i, tr := range stats.TopReferrers {
		resp.TopReferrers[i] = dto.TopReferrerResponse{
			UserID:        tr.User.UserID,
			Username:      tr.User.Username,
			FirstName:     tr.User.FirstName,
			LastName:      tr.User.LastName,
			ReferralCount: tr.ReferralCount,
			Balance:       dto.BalancePayload{Coins: tr.User.Balance.Coins, Usd: tr.User.Balance.Usd},
		}
	}

	c.JSON(http.StatusOK, resp)
}
