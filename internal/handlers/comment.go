package handlers

import (
	"net/http"
	"strconv"
	"tunelink/internal/db"
	"tunelink/internal/models"
	"tunelink/internal/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

type createCommentRequest struct {
	PostID  uint   `json:"postID"`
	Comment string `json:"comment"`
}

// Create 发表评论，评论只增不改
func (h *CommentHandler) Create(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PostID == 0 || req.Comment == "" {
		Fail(c, http.StatusBadRequest, "Missing postID or comment")
		return
	}

	var post models.Post
	if err := db.DB.First(&post, req.PostID).Error; err != nil {
		Fail(c, http.StatusNotFound, "Post not found")
		return
	}

	comment := models.Comment{
		PostID:  post.ID,
		UserID:  user.ID,
		Content: utils.SanitizeText(req.Comment),
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		FailWith(c, err)
		return
	}

	utils.GetCache().Delete(feedCacheKey)

	c.JSON(http.StatusOK, gin.H{"message": "Comment added", "commentId": comment.ID})
}

// ListByPost 某帖子的全部评论，按时间正序，带作者信息
func (h *CommentHandler) ListByPost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("postID"))
	if err != nil {
		Fail(c, http.StatusBadRequest, "Invalid postID")
		return
	}

	var comments []models.Comment
	err = db.DB.Where("post_id = ?", uint(postID)).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		FailWith(c, err)
		return
	}

	// 批量填充作者信息
	if len(comments) > 0 {
		userIDs := make([]uint, 0, len(comments))
		seen := make(map[uint]bool)
		for _, cm := range comments {
			if !seen[cm.UserID] {
				seen[cm.UserID] = true
				userIDs = append(userIDs, cm.UserID)
			}
		}

		var users []models.User
		db.DB.Where("id IN ?", userIDs).Find(&users)
		userMap := make(map[uint]models.User, len(users))
		for _, u := range users {
			userMap[u.ID] = u
		}

		for i := range comments {
			if u, ok := userMap[comments[i].UserID]; ok {
				comments[i].ArtistID = u.ArtistID
				comments[i].ArtistName = u.ArtistName
				comments[i].ProfilePhotoPath = u.ProfilePhotoPath
			}
		}
	}

	c.JSON(http.StatusOK, comments)
}
