package services

import (
	"errors"
	"testing"
	"tunelink/internal/db"
	"tunelink/internal/models"

	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return gdb
}

func createTestAccount(t *testing.T, s *AuthService, email string) *models.User {
	t.Helper()
	user, err := s.CreateAccount(CreateAccountCommand{
		ArtistName: "tester",
		Email:      email,
		Password:   "secret",
		Role:       "user",
		MusicType:  "rock",
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return user
}

func TestCreateAccount(t *testing.T) {
	s := NewAuthService(newTestDB(t))

	user := createTestAccount(t, s, "a@example.com")
	if len(user.ArtistID) != 8 {
		t.Errorf("expected 8-digit artistID, got %q", user.ArtistID)
	}
	if user.Password == "secret" {
		t.Error("password stored in plain text")
	}
	if user.OtpActive {
		t.Error("new account must not start with an active OTP")
	}

	// 重复邮箱
	_, err := s.CreateAccount(CreateAccountCommand{
		ArtistName: "other",
		Email:      "a@example.com",
		Password:   "secret2",
		MusicType:  "jazz",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}

	// 密码太短
	_, err = s.CreateAccount(CreateAccountCommand{
		ArtistName: "short",
		Email:      "b@example.com",
		Password:   "abc",
		MusicType:  "pop",
	})
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestLoginNormal(t *testing.T) {
	s := NewAuthService(newTestDB(t))
	user := createTestAccount(t, s, "a@example.com")

	got, err := s.Login(user.ArtistID, "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if got.ArtistID != user.ArtistID {
		t.Errorf("expected artist %s, got %s", user.ArtistID, got.ArtistID)
	}

	if _, err := s.Login(user.ArtistID, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownAccount(t *testing.T) {
	s := NewAuthService(newTestDB(t))
	createTestAccount(t, s, "a@example.com")

	// 未知账号和密码错误必须返回同一个错误，防止账号枚举
	_, err := s.Login("99999999", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestOTPFlow(t *testing.T) {
	s := NewAuthService(newTestDB(t))
	user := createTestAccount(t, s, "a@example.com")

	otp, err := s.GenerateOTP(user.ArtistID)
	if err != nil {
		t.Fatalf("generate OTP: %v", err)
	}
	if len(otp) != 6 {
		t.Errorf("expected 6-digit OTP, got %q", otp)
	}

	// OTP 激活后永久密码不再有效
	if _, err := s.Login(user.ArtistID, "secret"); !errors.Is(err, ErrWrongOTP) {
		t.Errorf("old password during OTP: expected ErrWrongOTP, got %v", err)
	}

	// 错的验证码不消耗正确的那个
	if _, err := s.Login(user.ArtistID, "000000"); !errors.Is(err, ErrWrongOTP) {
		t.Errorf("wrong OTP: expected ErrWrongOTP, got %v", err)
	}

	// 正确的验证码返回重置信号，绝不返回用户
	_, err = s.Login(user.ArtistID, otp)
	var reset *ResetRequiredError
	if !errors.As(err, &reset) {
		t.Fatalf("expected ResetRequiredError, got %v", err)
	}
	if reset.ArtistID != user.ArtistID {
		t.Errorf("reset signal carries artist %s, want %s", reset.ArtistID, user.ArtistID)
	}

	// 信号不结束 OTP 状态，验证码仍可再次匹配
	if _, err := s.Login(user.ArtistID, otp); !errors.As(err, &reset) {
		t.Errorf("OTP should stay valid until reset, got %v", err)
	}
}

func TestGenerateOTPReplacesPrevious(t *testing.T) {
	s := NewAuthService(newTestDB(t))
	user := createTestAccount(t, s, "a@example.com")

	first, err := s.GenerateOTP(user.ArtistID)
	if err != nil {
		t.Fatalf("generate first OTP: %v", err)
	}
	second, err := s.GenerateOTP(user.ArtistID)
	if err != nil {
		t.Fatalf("generate second OTP: %v", err)
	}

	if _, err := s.Login(user.ArtistID, first); !errors.Is(err, ErrWrongOTP) {
		t.Errorf("first OTP must be invalidated by the second, got %v", err)
	}
	var reset *ResetRequiredError
	if _, err := s.Login(user.ArtistID, second); !errors.As(err, &reset) {
		t.Errorf("second OTP should match, got %v", err)
	}
}

func TestGenerateOTPUnknownAccount(t *testing.T) {
	s := NewAuthService(newTestDB(t))

	if _, err := s.GenerateOTP("99999999"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	s := NewAuthService(newTestDB(t))
	user := createTestAccount(t, s, "a@example.com")

	// 未签发验证码时不允许重置，状态不变
	if err := s.ResetPassword(user.ArtistID, "newpass"); !errors.Is(err, ErrResetNotAllowed) {
		t.Errorf("reset in NORMAL state: expected ErrResetNotAllowed, got %v", err)
	}
	if _, err := s.Login(user.ArtistID, "secret"); err != nil {
		t.Errorf("failed reset must not change credentials: %v", err)
	}

	otp, err := s.GenerateOTP(user.ArtistID)
	if err != nil {
		t.Fatalf("generate OTP: %v", err)
	}

	// 新密码太短
	if err := s.ResetPassword(user.ArtistID, "abc"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}

	if err := s.ResetPassword(user.ArtistID, "abcd"); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	// 重置后新密码登录成功，旧验证码和旧密码都失效
	if _, err := s.Login(user.ArtistID, "abcd"); err != nil {
		t.Errorf("login with new password: %v", err)
	}
	if _, err := s.Login(user.ArtistID, otp); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("OTP after reset: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := s.Login(user.ArtistID, "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password after reset: expected ErrInvalidCredentials, got %v", err)
	}

	// 二次重置需要重新签发验证码
	if err := s.ResetPassword(user.ArtistID, "another"); !errors.Is(err, ErrResetNotAllowed) {
		t.Errorf("expected ErrResetNotAllowed after reset, got %v", err)
	}
}
