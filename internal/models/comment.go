package models

import (
	"time"
)

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"postID"`
	Post      Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID    uint      `gorm:"not null;index" json:"-"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	// Append-only, no UpdatedAt

	// 非数据库字段，查询时填充
	ArtistID         string `gorm:"-" json:"artistID"`
	ArtistName       string `gorm:"-" json:"artistName"`
	ProfilePhotoPath string `gorm:"-" json:"profilePhotoPath"`
}
