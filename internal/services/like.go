package services

import (
	"errors"
	"fmt"
	"tunelink/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeService 维护 (用户, 帖子) 点赞对的存在集合
type LikeService struct {
	db *gorm.DB
}

func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{db: db}
}

// Toggle 切换点赞状态，返回切换后是否为已点赞。
//
// 查询和写入放在同一个事务里，插入带 ON CONFLICT DO NOTHING，
// 配合 (user_id, post_id) 唯一索引，并发重复请求也不会出现第二行。
func (s *LikeService) Toggle(userID, postID uint) (liked bool, err error) {
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("lookup post %d: %w", postID, err)
		}

		var existing models.Like
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&existing).Error
		if err == nil {
			// 已点赞，取消
			liked = false
			return tx.Delete(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lookup like: %w", err)
		}

		like := models.Like{UserID: userID, PostID: postID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if res.Error != nil {
			return fmt.Errorf("create like: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// 并发请求抢先插入了同一行，本次请求按取消处理
			liked = false
			return tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{}).Error
		}
		liked = true
		return nil
	})
	return liked, err
}

// Count 返回帖子的点赞数
func (s *LikeService) Count(postID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count likes for post %d: %w", postID, err)
	}
	return count, nil
}

// IsLiked 检查用户是否已点赞某帖子
func (s *LikeService) IsLiked(userID, postID uint) bool {
	var like models.Like
	return s.db.Where("user_id = ? AND post_id = ?", userID, postID).First(&like).Error == nil
}
