package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coinadmin/backend/internal/apperrors"
	"github.com/coinadmin/backend/internal/core/domain"
	portsrepo "github.com/coinadmin/backend/internal/core/ports/repositories"
	portssvc "github.com/coinadmin/backend/internal/core/ports/services"
	"github.com/coinadmin/backend/internal/dto"
	"github.com/coinadmin/backend/internal/middleware"
)

// balanceHandler handles balance listing, adjustment and ledger requests.
type balanceHandler struct {
	balanceService   portssvc.BalanceSvcFacade
	userService      portssvc.UserSvcFacade
	reportingService portssvc.ReportingSvcFacade
}

func newBalanceHandler(bs portssvc.BalanceSvcFacade, us portssvc.UserSvcFacade, rs portssvc.ReportingSvcFacade) *balanceHandler {
	return &balanceHandler{balanceService: bs, userService: us, reportingService: rs}
}

// registerBalanceRoutes registers routes related to balances and the ledger.
func registerBalanceRoutes(rg *gin.RouterGroup, bs portssvc.BalanceSvcFacade, us portssvc.UserSvcFacade, rs portssvc.ReportingSvcFacade) {
	h := newBalanceHandler(bs, us, rs)

	balance := rg.Group("/balance")
	{
		balance.GET("/users", h.listBalances)
		balance.GET("/statistics", h.getBalanceStatistics)
		balance.GET("/monthly-stats", h.getMonthlyStats)
		balance.GET("/user/:userID", h.getUserBalance)
		balance.PUT("/user/:userID/adjust", middleware.RequireRole(adjusterRoles...), h.adjustBalance)
		balance.GET("/user/:userID/verify", middleware.RequireRole(adjusterRoles...), h.verifyLedger)
	}
}

// toRepoListParams converts listing query parameters to the repository shape.
func toRepoListParams(p dto.ListUsersParams, status domain.UserStatus) portsrepo.ListUsersParams {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 20
	}
	return portsrepo.ListUsersParams{
		Status:   status,
		Search:   p.Search,
		SortBy:   p.SortBy,
		SortDesc: p.SortOrder != "asc",
		Limit:    p.Limit,
		Offset:   (p.Page - 1) * p.Limit,
	}
}

// listBalances godoc
// @Summary List user balances
// @Description Lists active users with their balances plus aggregate totals
// @Tags balance
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Param search query string false "Match username, name or email"
// @Param sortBy query string false "Sort column" Enums(balance_coins, balance_usd, username, created_at)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} dto.ListBalancesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /api/balance/users [get]
func (h *balanceHandler) listBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	users, total, err := h.userService.ListUsers(c.Request.Context(), toRepoListParams(params, domain.UserActive))
	if err != nil {
		logger.Error("Failed to list balances", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list balances"})
		return
	}

	totals, err := h.reportingService.GetBalanceTotals(c.Request.Context())
	if err != nil {
		logger.Error("Failed to aggregate balances", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate balances"})
		return
	}

	c.JSON(http.StatusOK, dto.ListBalancesResponse{
		Users:      dto.ToUserResponses(users),
		Pagination: dto.NewPagination(params.Page, params.Limit, total),
		Totals: dto.BalanceTotalsPayload{
			TotalCoins: totals.TotalCoins,
			TotalUsd:   totals.TotalUsd,
			AvgCoins:   totals.AvgCoins,
			AvgUsd:     totals.AvgUsd,
		},
	})
}

// getUserBalance godoc
// @Summary Get a user's balance detail
// @Description Returns the user, a page of their ledger and per-kind totals
// @Tags balance
// @Produce json
// @Param userID path string true "User ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} dto.UserBalanceDetailResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /api/balance/user/{userID} [get]
func (h *balanceHandler) getUserBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			logger.Error("Failed to get user", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve balance"})
		}
		return
	}

	txns, total, err := h.balanceService.GetUserTransactions(c.Request.Context(), userID, params.Limit, (params.Page-1)*params.Limit)
	if err != nil {
		logger.Error("Failed to load transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transactions"})
		return
	}

	summary, err := h.balanceService.GetLedgerSummary(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to summarize ledger", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to summarize transactions"})
		return
	}

	c.JSON(http.StatusOK, dto.UserBalanceDetailResponse{
		User:         dto.ToUserResponse(user),
		Transactions: dto.ToTransactionResponses(txns),
		Pagination:   dto.NewPagination(params.Page, params.Limit, total),
		Summary:      summary,
	})
}

// adjustBalance godoc
// @Summary Adjust a user's balance
// @Description Applies a signed delta to a user's balance and appends one ledger entry
// @Tags balance
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param adjustment body dto.AdjustBalanceRequest true "Adjustment details"
// @Success 200 {object} dto.AdjustBalanceResponse
// @Failure 400 {object} map[string]string "Validation error or floor-zero violation"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 409 {object} map[string]string "Concurrent adjustment in flight, retry"
// @Failure 500 {object} map[string]string "Ledger integrity failure or internal error"
// @Security BearerAuth
// @Router /api/balance/user/{userID}/adjust [put]
func (h *balanceHandler) adjustBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	adminID, ok := middleware.GetAdminIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AdjustBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("target_user_id", userID), slog.String("admin_id", adminID))

	user, txn, err := h.balanceService.AdjustBalance(c.Request.Context(), userID, req, adminID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Adjustment rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Another adjustment is in progress, please retry"})
		case errors.Is(err, apperrors.ErrIntegrity):
			logger.Error("Ledger integrity failure", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ledger integrity check failed"})
		default:
			logger.Error("Failed to adjust balance", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust balance"})
		}
		return
	}

	logger.Info("Balance adjusted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)))
	c.JSON(http.StatusOK, dto.AdjustBalanceResponse{
		Message:     "Balance adjusted successfully",
		User:        dto.ToUserResponse(user),
		Transaction: dto.ToTransactionResponse(txn),
	})
}

// getBalanceStatistics godoc
// @Summary Get the balance statistics report
// @Tags balance
// @Produce json
// @Success 200 {object} dto.BalanceStatisticsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /api/balance/statistics [get]
func (h *balanceHandler) getBalanceStatistics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stats, err := h.reportingService.GetBalanceStatistics(c.Request.Context())
	if err != nil {
		logger.Error("Failed to build balance statistics", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build balance statistics"})
		return
	}

	c.JSON(http.StatusOK, dto.BalanceStatisticsResponse{
		MonthlyStats:        stats.MonthlyStats,
		BalanceDistribution: stats.Distribution,
		TopBalances:         dto.ToUserResponses(stats.TopBalances),
		RecentChanges:       dto.ToRecentChangeResponses(stats.RecentChanges),
	})
}

// getMonthlyStats godoc
// @Summary Get ledger aggregates for one calendar month
// @Tags balance
// @Produce json
// @Param year query int true "Calendar year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Invalid year or month"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /api/balance/monthly-stats [get]
func (h *balanceHandler) getMonthlyStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.MonthlyStatsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	stats, err := h.balanceService.GetMonthlyLedgerStats(c.Request.Context(), params.Year, params.Month)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to load monthly stats", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load monthly stats"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"year": params.Year, "month": params.Month, "stats": stats})
}

// verifyLedger godoc
// @Summary Verify a user's ledger chain
// @Description Replays the user's completed entries and checks snapshots and the materialized balance
// @Tags balance
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Ledger verification failed"
// @Security BearerAuth
// @Router /api/balance/user/{userID}/verify [get]
func (h *balanceHandler) verifyLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	if err := h.balanceService.VerifyLedger(c.Request.Context(), userID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, apperrors.ErrIntegrity):
			logger.Error("Ledger verification failed", slog.String("user_id", userID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to verify ledger", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify ledger"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ledger verified", "userID": userID})
}
