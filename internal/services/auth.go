package services

import (
	"errors"
	"fmt"
	"tunelink/internal/models"
	"tunelink/internal/utils"

	"gorm.io/gorm"
)

// MinPasswordLength 密码最小长度（重置和注册共用）
const MinPasswordLength = 4

// AuthService 账号凭证与登录状态机。
//
// 每个账号在任一时刻只认一种凭证，由 OtpActive 决定：
//   - OtpActive = false：Password 字段是永久密码的哈希
//   - OtpActive = true： Password 字段是待用一次性验证码的哈希
//
// 所有状态迁移都是对 (password, otp_active) 的一次原子更新。
type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// CreateAccountCommand 注册请求经校验后的命令对象
type CreateAccountCommand struct {
	ArtistName       string
	Email            string
	Password         string
	Role             string
	Bio              string
	MusicType        string
	ProfilePhotoPath string
}

// CreateAccount 创建账号并生成唯一的 8 位数字 artistID。
// 邮箱唯一性由数据库唯一索引保证，冲突返回 ErrEmailTaken。
func (s *AuthService) CreateAccount(cmd CreateAccountCommand) (*models.User, error) {
	if len(cmd.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ArtistName:       utils.SanitizeText(cmd.ArtistName),
		Email:            cmd.Email,
		Password:         hash,
		Role:             cmd.Role,
		Bio:              utils.SanitizeText(cmd.Bio),
		MusicType:        utils.SanitizeText(cmd.MusicType),
		ProfilePhotoPath: cmd.ProfilePhotoPath,
	}

	// artistID 随机生成，撞号时换一个重试
	for attempt := 0; attempt < 5; attempt++ {
		user.ArtistID = utils.GenerateArtistID()
		err = s.db.Create(&user).Error
		if err == nil {
			return &user, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.User
			if s.db.Where("email = ?", cmd.Email).First(&existing).Error == nil {
				return nil, ErrEmailTaken
			}
			continue // artistID collision, retry with a fresh one
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return nil, fmt.Errorf("create account: %w", err)
}

// Login 校验登录凭证。
//
// 正常态下密码匹配返回用户（由调用方建立会话）。OtpActive 时：
// 验证码匹配返回 *ResetRequiredError（绝不建立会话），不匹配返回
// ErrWrongOTP，验证码保持有效。账号不存在与密码错误统一返回
// ErrInvalidCredentials。
func (s *AuthService) Login(artistID, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("artist_id = ?", artistID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup artist %s: %w", artistID, err)
	}

	if user.OtpActive {
		if utils.CheckPasswordHash(password, user.Password) {
			return nil, &ResetRequiredError{ArtistID: user.ArtistID}
		}
		return nil, ErrWrongOTP
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GenerateOTP 为指定账号签发一次性验证码，返回明文（仅此一次）。
// 重复签发会使上一个验证码永久失效。
func (s *AuthService) GenerateOTP(artistID string) (string, error) {
	var user models.User
	if err := s.db.Where("artist_id = ?", artistID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("lookup artist %s: %w", artistID, err)
	}

	otp := utils.GenerateOTP()
	hash, err := utils.HashPassword(otp)
	if err != nil {
		return "", fmt.Errorf("hash OTP: %w", err)
	}

	// 凭证和标志位一次写入，账号进入等待重置状态
	err = s.db.Model(&user).Updates(map[string]interface{}{
		"password":   hash,
		"otp_active": true,
	}).Error
	if err != nil {
		return "", fmt.Errorf("store OTP for artist %s: %w", artistID, err)
	}

	return otp, nil
}

// ResetPassword 用新密码替换待用验证码，仅在 OtpActive 时允许。
func (s *AuthService) ResetPassword(artistID, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	var user models.User
	if err := s.db.Where("artist_id = ?", artistID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup artist %s: %w", artistID, err)
	}

	if !user.OtpActive {
		return ErrResetNotAllowed
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.db.Model(&user).Updates(map[string]interface{}{
		"password":   hash,
		"otp_active": false,
	}).Error
	if err != nil {
		return fmt.Errorf("reset password for artist %s: %w", artistID, err)
	}

	return nil
}
