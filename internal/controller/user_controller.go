package controller

import (
	"fmt"
	"path/filepath"
	"time"

	"habit_tracker_backend/internal/service"
	"habit_tracker_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService    *service.UserService
	StorageService *service.StorageService
}

func NewUserController(userService *service.UserService, storageService *service.StorageService) *UserController {
	return &UserController{
		UserService:    userService,
		StorageService: storageService,
	}
}

// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

// swagger:model UpdatePasswordRequest
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// UpdateProfile godoc
// @Summary Update display name and preferred timezone
// @Tags user
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body UpdateProfileRequest true "profile fields"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Router /user/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, req.Name, req.Timezone)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

// UpdatePassword godoc
// @Summary Change password
// @Tags user
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body UpdatePasswordRequest true "password change"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /user/password [put]
func (c *UserController) UpdatePassword(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdatePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.UpdatePassword(claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.SuccessMessage(ctx, "password updated", nil)
}

// UploadAvatar godoc
// @Summary Upload an avatar image
// @Tags user
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "avatar image"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /user/avatar/upload [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, []string{"image/"})
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	// ValidateMimeType consumed the sniff buffer; reopen for the upload.
	file.Close()
	file, err = fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("avatars/%d_%d%s", claims.UserID, time.Now().UnixNano(), filepath.Ext(fileHeader.Filename))
	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, file, fileHeader.Size, mimeType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if err := c.UserService.UpdateAvatar(claims.UserID, url); err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"avatar": url})
}
