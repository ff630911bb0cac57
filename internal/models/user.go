package models

import (
	"time"
)

type User struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	ArtistID         string    `gorm:"uniqueIndex;size:8;not null" json:"artistID"` // 系统生成的 8 位数字 ID
	ArtistName       string    `gorm:"not null" json:"artistName"`
	Email            string    `gorm:"uniqueIndex;not null" json:"email"`
	Password         string    `gorm:"not null" json:"-"` // bcrypt hash of the password, or of the pending OTP
	OtpActive        bool      `gorm:"default:false" json:"-"`
	Role             string    `gorm:"size:20;default:'user';not null" json:"role"` // user, admin
	Bio              string    `gorm:"size:500" json:"bio"`
	MusicType        string    `gorm:"size:50" json:"musicType"` // 音乐风格
	ProfilePhotoPath string    `json:"profilePhotoPath"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"-"`
	// No DeletedAt, accounts are never deleted
}
