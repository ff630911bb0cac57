package middleware

import (
	"net/http"
	"tunelink/internal/db"
	"tunelink/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// 会话键
const (
	SessionArtistID = "artist_id"
	SessionRole     = "role"
)

// LoadUser retrieves the account from the session and sets it on the context
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		artistID := session.Get(SessionArtistID)

		if artistID != nil {
			var user models.User
			result := db.DB.Where("artist_id = ?", artistID).First(&user)
			if result.Error == nil {
				c.Set(CheckUserKey, &user)
			}
		}
		c.Next()
	}
}

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		c.Next()
	}
}

// AdminRequired 仅管理员可用的路由
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get(CheckUserKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		if user.(*models.User).Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin only"})
			return
		}
		c.Next()
	}
}

// UserOnly 仅普通用户可用的路由（管理员不能给自己办的活动投票）
func UserOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get(CheckUserKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		if user.(*models.User).Role == "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admins cannot vote"})
			return
		}
		c.Next()
	}
}
