package handlers

import (
	"net/http"
	"strconv"
	"time"
	"tunelink/internal/db"
	"tunelink/internal/models"
	"tunelink/internal/services"
	"tunelink/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const feedCacheKey = "feed:posts"

type PostHandler struct {
	media *services.MediaService
}

func NewPostHandler(media *services.MediaService) *PostHandler {
	return &PostHandler{media: media}
}

// fillAuthors 批量填充帖子的作者信息
func fillAuthors(posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	userIDs := make([]uint, 0, len(posts))
	seen := make(map[uint]bool)
	for _, p := range posts {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			userIDs = append(userIDs, p.UserID)
		}
	}

	var users []models.User
	db.DB.Where("id IN ?", userIDs).Find(&users)
	userMap := make(map[uint]models.User, len(users))
	for _, u := range users {
		userMap[u.ID] = u
	}

	for i := range posts {
		if u, ok := userMap[posts[i].UserID]; ok {
			posts[i].ArtistID = u.ArtistID
			posts[i].ArtistName = u.ArtistName
			posts[i].ProfilePhotoPath = u.ProfilePhotoPath
		}
	}
}

// fillCounts 批量填充帖子的点赞数和评论数
func fillCounts(posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countResult struct {
		PostID uint
		Count  int
	}

	var likeCounts []countResult
	db.DB.Model(&models.Like{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&likeCounts)
	likeMap := make(map[uint]int, len(likeCounts))
	for _, r := range likeCounts {
		likeMap[r.PostID] = r.Count
	}

	var commentCounts []countResult
	db.DB.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&commentCounts)
	commentMap := make(map[uint]int, len(commentCounts))
	for _, r := range commentCounts {
		commentMap[r.PostID] = r.Count
	}

	for i := range posts {
		posts[i].LikeCount = likeMap[posts[i].ID]
		posts[i].CommentCount = commentMap[posts[i].ID]
	}
}

// Create 发帖，multipart 表单，媒体可选
func (h *PostHandler) Create(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	content := c.PostForm("content")

	var mediaPath, mediaType string
	if fh, err := c.FormFile("media"); err == nil {
		mediaPath, mediaType, err = h.media.SavePostMedia(fh)
		if err != nil {
			FailWith(c, err)
			return
		}
	}

	post := models.Post{
		UserID:    user.ID,
		Content:   content,
		MediaPath: mediaPath,
		MediaType: mediaType,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		FailWith(c, err)
		return
	}

	utils.GetCache().Delete(feedCacheKey)

	c.JSON(http.StatusOK, gin.H{
		"message":   "Post created",
		"postId":    post.ID,
		"content":   post.Content,
		"mediaPath": post.MediaPath,
		"mediaType": post.MediaType,
	})
}

// List 最新 50 条帖子，带作者信息和点赞/评论数，结果缓存 1 分钟
func (h *PostHandler) List(c *gin.Context) {
	if cached := utils.GetCache().Get(feedCacheKey); cached != nil {
		if posts, ok := cached.([]models.Post); ok {
			c.JSON(http.StatusOK, posts)
			return
		}
	}

	var posts []models.Post
	err := db.DB.Order("created_at DESC").Limit(50).Find(&posts).Error
	if err != nil {
		FailWith(c, err)
		return
	}

	fillAuthors(posts)
	fillCounts(posts)
	for i := range posts {
		posts[i].ContentHTML = string(utils.RenderMarkdown(posts[i].Content))
	}

	utils.GetCache().Set(feedCacheKey, posts, 1*time.Minute)

	c.JSON(http.StatusOK, posts)
}

type updatePostRequest struct {
	Content string `json:"content"`
}

// Update 编辑帖子正文，仅作者本人
func (h *PostHandler) Update(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		Fail(c, http.StatusBadRequest, "Invalid post id")
		return
	}

	var post models.Post
	if err := db.DB.First(&post, uint(id)).Error; err != nil {
		Fail(c, http.StatusNotFound, "Post not found")
		return
	}
	if post.UserID != user.ID {
		Fail(c, http.StatusForbidden, "Not the author")
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := db.DB.Model(&post).Update("content", req.Content).Error; err != nil {
		FailWith(c, err)
		return
	}

	utils.GetCache().Delete(feedCacheKey)

	c.JSON(http.StatusOK, gin.H{"message": "Post updated"})
}

// Delete 删除帖子及其点赞和评论，仅作者本人
func (h *PostHandler) Delete(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		Fail(c, http.StatusBadRequest, "Invalid post id")
		return
	}

	var post models.Post
	if err := db.DB.First(&post, uint(id)).Error; err != nil {
		Fail(c, http.StatusNotFound, "Post not found")
		return
	}
	if post.UserID != user.ID {
		Fail(c, http.StatusForbidden, "Not the author")
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		FailWith(c, err)
		return
	}

	utils.GetCache().Delete(feedCacheKey)

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}
