package models

import (
	"time"
)

// 媒体类型
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"-"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Content   string    `gorm:"type:text" json:"content"`
	MediaPath string    `json:"mediaPath"`
	MediaType string    `gorm:"size:10" json:"mediaType"` // image, video, empty when no media
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	// 非数据库字段，查询时填充
	ArtistID         string `gorm:"-" json:"artistID"`
	ContentHTML      string `gorm:"-" json:"contentHtml"`
	ArtistName       string `gorm:"-" json:"artistName"`
	ProfilePhotoPath string `gorm:"-" json:"profilePhotoPath"`
	LikeCount        int    `gorm:"-" json:"likeCount"`
	CommentCount     int    `gorm:"-" json:"commentCount"`
}
