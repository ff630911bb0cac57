package services

import (
	"errors"
	"fmt"
)

// 客户端可见的错误分类。处理层据此映射 HTTP 状态码，
// 其余一律按存储错误处理（对外只返回笼统的服务器错误）。
var (
	// 认证错误：账号不存在和密码错误刻意不作区分，防止账号枚举
	ErrInvalidCredentials = errors.New("invalid artist ID or password")
	ErrWrongOTP           = errors.New("wrong OTP")

	// 状态/校验错误
	ErrResetNotAllowed  = errors.New("password reset not allowed")
	ErrPasswordTooShort = errors.New("password too short")
	ErrEmailTaken       = errors.New("email already registered")
	ErrNotFound         = errors.New("record not found")
)

// ResetRequiredError OTP 校验通过。登录不成立，调用方必须引导用户重置密码。
type ResetRequiredError struct {
	ArtistID string
}

func (e *ResetRequiredError) Error() string {
	return fmt.Sprintf("password reset required for artist %s", e.ArtistID)
}
