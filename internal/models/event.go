package models

import (
	"time"
)

// Event 活动投票 - 管理员创建，整体删除时级联删除歌曲
type Event struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"eventName"`
	CreatedAt time.Time `json:"createdAt"`

	Songs []Song `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"songs"`
}

// Song 参赛歌曲 - Votes 只增不减，除非整个活动被删除
type Song struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;index" json:"eventID"`
	Name      string    `gorm:"not null" json:"songName"`
	MediaPath string    `json:"songPath"`
	Votes     int       `gorm:"default:0;not null" json:"votes"`
	CreatedAt time.Time `json:"-"`
}
