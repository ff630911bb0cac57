package handlers

import (
	"net/http"
	"strings"
	"tunelink/internal/db"
	"tunelink/internal/models"
	"tunelink/internal/utils"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

// Get 当前登录用户的完整资料
func (h *ProfileHandler) Get(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"artistID":         user.ArtistID,
		"artistName":       user.ArtistName,
		"email":            user.Email,
		"role":             user.Role,
		"bio":              user.Bio,
		"musicType":        user.MusicType,
		"profilePhotoPath": user.ProfilePhotoPath,
	})
}

type updateProfileRequest struct {
	Bio              *string `json:"bio"`
	MusicType        *string `json:"musicType"`
	ProfilePhotoPath *string `json:"profilePhotoPath"`
}

// Update 更新资料，只动请求里带的字段
func (h *ProfileHandler) Update(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	updates := map[string]interface{}{}
	if req.Bio != nil {
		updates["bio"] = utils.SanitizeText(*req.Bio)
	}
	if req.MusicType != nil {
		updates["music_type"] = utils.SanitizeText(*req.MusicType)
	}
	if req.ProfilePhotoPath != nil {
		updates["profile_photo_path"] = *req.ProfilePhotoPath
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	if err := db.DB.Model(user).Updates(updates).Error; err != nil {
		FailWith(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Public 按艺名查公开资料卡片
func (h *ProfileHandler) Public(c *gin.Context) {
	name := strings.TrimSpace(strings.TrimPrefix(c.Param("username"), "@"))

	var user models.User
	if err := db.DB.Where("artist_name = ?", name).First(&user).Error; err != nil {
		Fail(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"artistName":       user.ArtistName,
		"profilePhotoPath": user.ProfilePhotoPath,
		"bio":              user.Bio,
		"musicType":        user.MusicType,
		"role":             user.Role,
	})
}
