package controller

import (
	"errors"
	"time"

	"habit_tracker_backend/internal/engine"
	"habit_tracker_backend/internal/service"
	"habit_tracker_backend/internal/util"
	"habit_tracker_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type HabitController struct {
	HabitService   *service.HabitService
	TrackerService *service.TrackerService
	UserService    *service.UserService
}

func NewHabitController(habitService *service.HabitService, trackerService *service.TrackerService, userService *service.UserService) *HabitController {
	return &HabitController{
		HabitService:   habitService,
		TrackerService: trackerService,
		UserService:    userService,
	}
}

// swagger:model HabitRequest
type HabitRequest struct {
	Name        string   `json:"name" binding:"required"`
	Icon        string   `json:"icon"`
	Schedule    []string `json:"schedule" binding:"required"`
	ActiveFrom  string   `json:"activeFrom" binding:"required"`
	ActiveUntil string   `json:"activeUntil"`
}

// swagger:model ToggleRequest
type ToggleRequest struct {
	OccurredAt time.Time `json:"occurredAt" binding:"required"`
	Timezone   string    `json:"timezone" binding:"required"`
	Notes      string    `json:"notes"`
}

// List godoc
// @Summary Habits due on a date
// @Description Lists the habits due on the given local date with completion state and cached streaks. Date defaults to today in the resolved timezone.
// @Tags habits
// @Produce json
// @Security ApiKeyAuth
// @Param date query string false "calendar date (YYYY-MM-DD)"
// @Param timezone query string false "IANA timezone, defaults to the user's preference"
// @Success 200 {object} util.Response{data=[]service.HabitDayView}
// @Failure 400 {object} util.Response
// @Router /habits [get]
func (c *HabitController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	timezone := c.resolveTimezone(ctx, claims.UserID)

	var date engine.Date
	if raw := ctx.Query("date"); raw != "" {
		parsed, err := engine.ParseDate(raw)
		if err != nil {
			util.BadRequest(ctx, "invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	} else {
		today, _, err := engine.LocalDay(time.Now(), timezone)
		if err != nil {
			respondServiceError(ctx, err)
			return
		}
		date = today
	}

	habits, err := c.HabitService.ListForDate(claims.UserID, date, timezone)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, habits)
}

// Create godoc
// @Summary Create a habit
// @Tags habits
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body HabitRequest true "habit definition"
// @Success 201 {object} util.Response{data=model.Habit}
// @Failure 400 {object} util.Response
// @Router /habits [post]
func (c *HabitController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req HabitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	habit, err := c.HabitService.CreateHabit(claims.UserID, service.HabitInput{
		Name:        req.Name,
		Icon:        req.Icon,
		Schedule:    req.Schedule,
		ActiveFrom:  req.ActiveFrom,
		ActiveUntil: req.ActiveUntil,
	})
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, habit)
}

// Update godoc
// @Summary Update a habit's definition
// @Tags habits
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "habit id"
// @Param request body HabitRequest true "habit definition"
// @Success 200 {object} util.Response{data=model.Habit}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /habits/{id} [put]
func (c *HabitController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req HabitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	habit, err := c.HabitService.UpdateHabit(claims.UserID, util.MustParseUint(ctx.Param("id")), service.HabitInput{
		Name:        req.Name,
		Icon:        req.Icon,
		Schedule:    req.Schedule,
		ActiveFrom:  req.ActiveFrom,
		ActiveUntil: req.ActiveUntil,
	})
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, habit)
}

// Delete godoc
// @Summary Delete a habit and its completion events
// @Tags habits
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "habit id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /habits/{id} [delete]
func (c *HabitController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.HabitService.DeleteHabit(claims.UserID, util.MustParseUint(ctx.Param("id"))); err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.SuccessMessage(ctx, "habit deleted", nil)
}

// Toggle godoc
// @Summary Toggle a habit's completion for a local day
// @Description Records a completion for occurredAt's local calendar day, or removes the one already recorded for that day.
// @Tags habits
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "habit id"
// @Param request body ToggleRequest true "toggle payload"
// @Success 200 {object} util.Response "completion removed"
// @Success 201 {object} util.Response "completion recorded"
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /habits/{id}/trackers [post]
func (c *HabitController) Toggle(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ToggleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.TrackerService.Toggle(claims.UserID, util.MustParseUint(ctx.Param("id")), req.OccurredAt, req.Timezone, req.Notes)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	payload := gin.H{
		"habitId":          result.Habit.ID,
		"currentStreak":    result.Habit.CurrentStreak,
		"longestStreak":    result.Habit.LongestStreak,
		"totalCompletions": result.Habit.TotalCompletions,
		"lastCompletedAt":  result.Habit.LastCompletedAt,
	}
	if result.Inserted {
		monitoring.ToggleCounter.WithLabelValues("recorded").Inc()
		util.CreatedMessage(ctx, "completion recorded", payload)
		return
	}
	monitoring.ToggleCounter.WithLabelValues("removed").Inc()
	util.SuccessMessage(ctx, "completion removed", payload)
}

// resolveTimezone prefers the explicit query parameter, falling back to the
// user's stored preference. Validation happens downstream in the engine.
func (c *HabitController) resolveTimezone(ctx *gin.Context, userID uint) string {
	if tz := ctx.Query("timezone"); tz != "" {
		return tz
	}
	if user, err := c.UserService.GetUserByID(userID); err == nil && user.Timezone != "" {
		return user.Timezone
	}
	return "UTC"
}

// respondServiceError maps service and engine errors onto the response
// envelope; anything unrecognized is a 500.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidTimezone),
		errors.Is(err, engine.ErrInvalidDate),
		errors.Is(err, engine.ErrInvalidDateRange),
		errors.Is(err, engine.ErrInvalidSchedule):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrHabitNotFound), errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
