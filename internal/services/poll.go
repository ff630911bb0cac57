package services

import (
	"errors"
	"fmt"
	"tunelink/internal/models"

	"gorm.io/gorm"
)

// PollService 活动投票：管理员建/删活动，普通用户给歌曲投票
type PollService struct {
	db *gorm.DB
}

func NewPollService(db *gorm.DB) *PollService {
	return &PollService{db: db}
}

// SongInput 新活动中的一首参赛歌曲
type SongInput struct {
	Name      string
	MediaPath string
}

// ListEvents 返回全部活动及其歌曲
func (s *PollService) ListEvents() ([]models.Event, error) {
	var events []models.Event
	if err := s.db.Preload("Songs").Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// CreateEvent 创建活动和全部歌曲，一个事务写入
func (s *PollService) CreateEvent(name string, songs []SongInput) (*models.Event, error) {
	event := models.Event{Name: name}
	for _, in := range songs {
		event.Songs = append(event.Songs, models.Song{
			Name:      in.Name,
			MediaPath: in.MediaPath,
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&event).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &event, nil
}

// DeleteEvent 删除活动及其全部歌曲
func (s *PollService) DeleteEvent(eventID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("lookup event %d: %w", eventID, err)
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&models.Song{}).Error; err != nil {
			return fmt.Errorf("delete songs of event %d: %w", eventID, err)
		}
		return tx.Delete(&event).Error
	})
}

// Vote 给歌曲加一票，返回新的票数。
// 计数更新在事务内用 votes = votes + 1 完成，不读旧值，票数只增不减。
func (s *PollService) Vote(songID uint) (int, error) {
	var votes int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Song{}).
			Where("id = ?", songID).
			UpdateColumn("votes", gorm.Expr("votes + ?", 1))
		if res.Error != nil {
			return fmt.Errorf("increment votes for song %d: %w", songID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		var song models.Song
		if err := tx.First(&song, songID).Error; err != nil {
			return fmt.Errorf("reload song %d: %w", songID, err)
		}
		votes = song.Votes
		return nil
	})
	return votes, err
}
