package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync/atomic"
	"time"
	"tunelink/internal/docstore"
	"tunelink/internal/models"

	"gorm.io/gorm"
)

// SyncService 定时把主库（SQLite）的 users/posts 表单向同步到文档库。
// 只做新增和覆盖，不传播删除；内容没变的文档跳过写入。
type SyncService struct {
	db       *gorm.DB
	docs     docstore.Store
	interval time.Duration
	inFlight atomic.Bool
}

func NewSyncService(db *gorm.DB, docs docstore.Store, interval time.Duration) *SyncService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &SyncService{db: db, docs: docs, interval: interval}
}

// Start 启动后台同步：立即执行一轮，之后按固定间隔执行。
// 上一轮还没结束时跳过本次触发，避免两轮并发执行。
func (s *SyncService) Start() {
	go func() {
		s.runGuarded()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for range ticker.C {
			s.runGuarded()
		}
	}()
}

func (s *SyncService) runGuarded() {
	if !s.inFlight.CompareAndSwap(false, true) {
		log.Println("Sync cycle still running, skipping this tick")
		return
	}
	defer s.inFlight.Store(false)

	writes, err := s.RunOnce(context.Background())
	if err != nil {
		log.Printf("Sync cycle finished with errors (%d documents written): %v", writes, err)
		return
	}
	log.Printf("Sync cycle complete, %d documents written", writes)
}

// RunOnce 执行一轮完整同步，返回写入的文档数。
// 单表读主库失败只放弃该表本轮的同步，下一轮重试。
func (s *SyncService) RunOnce(ctx context.Context) (int, error) {
	writes := 0
	var errs []error

	n, err := s.syncUsers(ctx)
	writes += n
	if err != nil {
		errs = append(errs, fmt.Errorf("sync users: %w", err))
	}

	n, err = s.syncPosts(ctx)
	writes += n
	if err != nil {
		errs = append(errs, fmt.Errorf("sync posts: %w", err))
	}

	return writes, errors.Join(errs...)
}

func (s *SyncService) syncUsers(ctx context.Context) (int, error) {
	var users []models.User
	if err := s.db.Find(&users).Error; err != nil {
		return 0, fmt.Errorf("read users: %w", err)
	}

	writes := 0
	for _, u := range users {
		n, err := s.upsertChanged(ctx, "users", u.ArtistID, userDoc(u))
		writes += n
		if err != nil {
			// 单条写失败放弃本表剩余行
			return writes, err
		}
	}
	return writes, nil
}

func (s *SyncService) syncPosts(ctx context.Context) (int, error) {
	var posts []models.Post
	if err := s.db.Find(&posts).Error; err != nil {
		return 0, fmt.Errorf("read posts: %w", err)
	}

	writes := 0
	for _, p := range posts {
		n, err := s.upsertChanged(ctx, "posts", strconv.FormatUint(uint64(p.ID), 10), postDoc(p))
		writes += n
		if err != nil {
			return writes, err
		}
	}
	return writes, nil
}

// upsertChanged 仅当文档缺失或内容不同才覆盖写入，返回写入数（0 或 1）
func (s *SyncService) upsertChanged(ctx context.Context, collection, key string, doc map[string]interface{}) (int, error) {
	existing, err := s.docs.Get(ctx, collection, key)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return 0, err
	}
	if err == nil && sameDoc(existing, doc) {
		return 0, nil
	}

	if err := s.docs.Set(ctx, collection, key, doc); err != nil {
		return 0, err
	}
	return 1, nil
}

// sameDoc 整体结构比较：两边都归一化成 JSON 再比对字节。
// 文档库把整数解码成 int32/int64、浮点解码成 float64，
// 直接 DeepEqual 会因数值类型不同误判，JSON 归一化后不受影响。
func sameDoc(a, b map[string]interface{}) bool {
	aj, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bj, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(aj, bj)
}

// userDoc 账号行的文档形式，字段与主库行一一对应
func userDoc(u models.User) map[string]interface{} {
	return map[string]interface{}{
		"artistID":         u.ArtistID,
		"artistName":       u.ArtistName,
		"email":            u.Email,
		"password":         u.Password,
		"otpActive":        u.OtpActive,
		"role":             u.Role,
		"bio":              u.Bio,
		"musicType":        u.MusicType,
		"profilePhotoPath": u.ProfilePhotoPath,
		"createdAt":        u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// postDoc 帖子行的文档形式
func postDoc(p models.Post) map[string]interface{} {
	return map[string]interface{}{
		"userID":    strconv.FormatUint(uint64(p.UserID), 10),
		"content":   p.Content,
		"mediaPath": p.MediaPath,
		"mediaType": p.MediaType,
		"createdAt": p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
