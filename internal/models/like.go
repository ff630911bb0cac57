package models

import (
	"time"
)

// Like 点赞模型 - (UserID, PostID) 组合唯一，一对至多一行
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_post" json:"userID"`
	PostID    uint      `gorm:"not null;index;uniqueIndex:idx_user_post" json:"postID"`
	Post      Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
