package handlers

import (
	"errors"
	"net/http"
	"strings"
	"tunelink/internal/db"
	"tunelink/internal/middleware"
	"tunelink/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth  *services.AuthService
	media *services.MediaService
}

func NewAuthHandler(media *services.MediaService) *AuthHandler {
	return &AuthHandler{
		auth:  services.NewAuthService(db.DB),
		media: media,
	}
}

type loginRequest struct {
	ArtistID string `json:"artistID"`
	Password string `json:"password"`
}

// Login 登录。OTP 激活中的账号匹配验证码时不建立会话，
// 返回 reset_password 信号引导客户端进入重置流程。
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ArtistID == "" {
		Fail(c, http.StatusBadRequest, "Missing artistID")
		return
	}
	if req.Password == "" {
		Fail(c, http.StatusBadRequest, "Missing password")
		return
	}

	user, err := h.auth.Login(req.ArtistID, req.Password)
	if err != nil {
		var reset *services.ResetRequiredError
		if errors.As(err, &reset) {
			c.JSON(http.StatusForbidden, gin.H{"error": "reset_password", "artistID": reset.ArtistID})
			return
		}
		FailWith(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionArtistID, user.ArtistID)
	session.Set(middleware.SessionRole, user.Role)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"role": user.Role})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

type generateOTPRequest struct {
	ArtistID string `json:"artistID"`
}

// GenerateOTP 为账号签发一次性验证码，明文只在本次响应返回一次
func (h *AuthHandler) GenerateOTP(c *gin.Context) {
	var req generateOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ArtistID == "" {
		Fail(c, http.StatusBadRequest, "Missing artistID")
		return
	}

	otp, err := h.auth.GenerateOTP(req.ArtistID)
	if err != nil {
		FailWith(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"otp": otp})
}

type resetPasswordRequest struct {
	ArtistID    string `json:"artistID"`
	NewPassword string `json:"newPassword"`
}

// ResetPassword 用新密码结束 OTP 流程，仅在验证码激活中允许
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ArtistID == "" || req.NewPassword == "" {
		Fail(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := h.auth.ResetPassword(req.ArtistID, req.NewPassword); err != nil {
		FailWith(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// CreateAccount 注册，multipart 表单，头像可选
func (h *AuthHandler) CreateAccount(c *gin.Context) {
	artistName := strings.TrimSpace(c.PostForm("artistName"))
	email := strings.TrimSpace(c.PostForm("email"))
	role := c.PostForm("role")
	bio := c.PostForm("bio")
	musicType := c.PostForm("musicType")
	password := c.PostForm("password")

	if artistName == "" || email == "" || password == "" || musicType == "" {
		Fail(c, http.StatusBadRequest, "Missing required fields")
		return
	}
	if role != "admin" {
		role = "user"
	}

	photoPath := "/static/default-pfp.png"
	if fh, err := c.FormFile("profilePhoto"); err == nil {
		photoPath, err = h.media.SaveProfilePhoto(fh)
		if err != nil {
			FailWith(c, err)
			return
		}
	}

	user, err := h.auth.CreateAccount(services.CreateAccountCommand{
		ArtistName:       artistName,
		Email:            email,
		Password:         password,
		Role:             role,
		Bio:              bio,
		MusicType:        musicType,
		ProfilePhotoPath: photoPath,
	})
	if err != nil {
		FailWith(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account created successfully", "artistID": user.ArtistID})
}
