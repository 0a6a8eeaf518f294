package controller

import (
	"time"

	"habit_tracker_backend/internal/engine"
	"habit_tracker_backend/internal/service"
	"habit_tracker_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
	UserService     *service.UserService
}

func NewProgressController(progressService *service.ProgressService, userService *service.UserService) *ProgressController {
	return &ProgressController{
		ProgressService: progressService,
		UserService:     userService,
	}
}

// History godoc
// @Summary Daily completion-rate series
// @Description Per-day scheduled/completed counts and completion rate for the requested range; defaults to the past 30 days.
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Param startDate query string false "range start (YYYY-MM-DD)"
// @Param endDate query string false "range end (YYYY-MM-DD)"
// @Param timezone query string false "IANA timezone, defaults to the user's preference"
// @Success 200 {object} util.Response{data=[]engine.DailyProgress}
// @Failure 400 {object} util.Response
// @Router /progress/history [get]
func (c *ProgressController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	timezone := c.resolveTimezone(ctx, claims.UserID)
	start, end, err := c.resolveRange(ctx, timezone)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	series, err := c.ProgressService.History(claims.UserID, timezone, start, end)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, series)
}

// Streaks godoc
// @Summary Perfect-day and per-habit streaks
// @Description Streaks always scan a fixed lookback window ending today; startDate/endDate parameters are deliberately ignored here.
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Param timezone query string false "IANA timezone, defaults to the user's preference"
// @Success 200 {object} util.Response{data=service.StreaksResult}
// @Failure 400 {object} util.Response
// @Router /progress/streaks [get]
func (c *ProgressController) Streaks(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.ProgressService.Streaks(claims.UserID, c.resolveTimezone(ctx, claims.UserID))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// Overview godoc
// @Summary Combined history and streaks
// @Description The range applies to the history series only; the streak block ignores it.
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Param startDate query string false "range start (YYYY-MM-DD)"
// @Param endDate query string false "range end (YYYY-MM-DD)"
// @Param timezone query string false "IANA timezone, defaults to the user's preference"
// @Success 200 {object} util.Response{data=service.ProgressOverview}
// @Failure 400 {object} util.Response
// @Router /progress/overview [get]
func (c *ProgressController) Overview(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	timezone := c.resolveTimezone(ctx, claims.UserID)
	start, end, err := c.resolveRange(ctx, timezone)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	overview, err := c.ProgressService.Overview(ctx.Request.Context(), claims.UserID, timezone, start, end)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, overview)
}

func (c *ProgressController) resolveTimezone(ctx *gin.Context, userID uint) string {
	if tz := ctx.Query("timezone"); tz != "" {
		return tz
	}
	if user, err := c.UserService.GetUserByID(userID); err == nil && user.Timezone != "" {
		return user.Timezone
	}
	return "UTC"
}

// resolveRange reads startDate/endDate, defaulting to the 30 local days
// ending today.
func (c *ProgressController) resolveRange(ctx *gin.Context, timezone string) (engine.Date, engine.Date, error) {
	today, _, err := engine.LocalDay(time.Now(), timezone)
	if err != nil {
		return engine.Date{}, engine.Date{}, err
	}

	start, end := today.AddDays(-29), today
	if raw := ctx.Query("startDate"); raw != "" {
		if start, err = engine.ParseDate(raw); err != nil {
			return engine.Date{}, engine.Date{}, err
		}
	}
	if raw := ctx.Query("endDate"); raw != "" {
		if end, err = engine.ParseDate(raw); err != nil {
			return engine.Date{}, engine.Date{}, err
		}
	}
	if end.Before(start) {
		return engine.Date{}, engine.Date{}, engine.ErrInvalidDateRange
	}
	return start, end, nil
}
