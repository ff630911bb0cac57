package handlers

import (
	"net/http"
	"tunelink/internal/db"
	"tunelink/internal/services"
	"tunelink/internal/utils"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	likes *services.LikeService
}

func NewLikeHandler() *LikeHandler {
	return &LikeHandler{likes: services.NewLikeService(db.DB)}
}

type likeRequest struct {
	PostID uint `json:"postID"`
}

// Toggle 切换点赞状态 - 点赞/取消点赞
func (h *LikeHandler) Toggle(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PostID == 0 {
		Fail(c, http.StatusBadRequest, "Missing postID")
		return
	}

	liked, err := h.likes.Toggle(user.ID, req.PostID)
	if err != nil {
		FailWith(c, err)
		return
	}

	utils.GetCache().Delete(feedCacheKey)

	count, err := h.likes.Count(req.PostID)
	if err != nil {
		FailWith(c, err)
		return
	}

	message := "Unliked"
	if liked {
		message = "Liked"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "likeCount": count})
}
