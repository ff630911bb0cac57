package handlers

import (
	"errors"
	"log"
	"net/http"
	"tunelink/internal/middleware"
	"tunelink/internal/models"
	"tunelink/internal/services"

	"github.com/gin-gonic/gin"
)

// CurrentUser 从上下文取出登录用户（LoadUser 中间件放入）
func CurrentUser(c *gin.Context) (*models.User, bool) {
	user, exists := c.Get(middleware.CheckUserKey)
	if !exists {
		return nil, false
	}
	return user.(*models.User), true
}

// Fail 输出错误响应
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// FailWith 把服务层错误映射成 HTTP 状态码。
// 未识别的错误按存储故障处理：记日志，对外只给笼统的 500。
func FailWith(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrWrongOTP):
		Fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrResetNotAllowed),
		errors.Is(err, services.ErrUnsupportedMedia),
		errors.Is(err, services.ErrMediaTooLarge):
		Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		Fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotFound):
		Fail(c, http.StatusNotFound, err.Error())
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		Fail(c, http.StatusInternalServerError, "Server error")
	}
}
