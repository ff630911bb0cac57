package services

import (
	"errors"
	"testing"
	"tunelink/internal/models"

	"gorm.io/gorm"
)

func seedUserAndPost(t *testing.T, gdb *gorm.DB) (models.User, models.Post) {
	t.Helper()
	user := models.User{
		ArtistID:   "12345678",
		ArtistName: "tester",
		Email:      "a@example.com",
		Password:   "x",
	}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	post := models.Post{UserID: user.ID, Content: "hello"}
	if err := gdb.Create(&post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return user, post
}

func likeRows(t *testing.T, gdb *gorm.DB, userID, postID uint) int64 {
	t.Helper()
	var count int64
	gdb.Model(&models.Like{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count)
	return count
}

func TestToggle(t *testing.T) {
	gdb := newTestDB(t)
	user, post := seedUserAndPost(t, gdb)
	s := NewLikeService(gdb)

	liked, err := s.Toggle(user.ID, post.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !liked {
		t.Error("first toggle should like")
	}
	if n := likeRows(t, gdb, user.ID, post.ID); n != 1 {
		t.Errorf("expected 1 like row, got %d", n)
	}

	liked, err = s.Toggle(user.ID, post.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if liked {
		t.Error("second toggle should unlike")
	}
	if n := likeRows(t, gdb, user.ID, post.ID); n != 0 {
		t.Errorf("expected 0 like rows after double toggle, got %d", n)
	}
}

// 奇数次切换存在一行，偶数次归零，任何时刻不超过一行
func TestToggleInvolution(t *testing.T) {
	gdb := newTestDB(t)
	user, post := seedUserAndPost(t, gdb)
	s := NewLikeService(gdb)

	for i := 1; i <= 5; i++ {
		if _, err := s.Toggle(user.ID, post.ID); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		want := int64(i % 2)
		if n := likeRows(t, gdb, user.ID, post.ID); n != want {
			t.Errorf("after %d toggles: expected %d rows, got %d", i, want, n)
		}
	}
}

func TestToggleUnknownPost(t *testing.T) {
	gdb := newTestDB(t)
	user, _ := seedUserAndPost(t, gdb)
	s := NewLikeService(gdb)

	if _, err := s.Toggle(user.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCount(t *testing.T) {
	gdb := newTestDB(t)
	user, post := seedUserAndPost(t, gdb)

	other := models.User{ArtistID: "87654321", ArtistName: "other", Email: "b@example.com", Password: "x"}
	if err := gdb.Create(&other).Error; err != nil {
		t.Fatalf("seed second user: %v", err)
	}

	s := NewLikeService(gdb)
	s.Toggle(user.ID, post.ID)
	s.Toggle(other.ID, post.ID)

	count, err := s.Count(post.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 likes, got %d", count)
	}

	if !s.IsLiked(user.ID, post.ID) {
		t.Error("IsLiked should be true after like")
	}
	s.Toggle(user.ID, post.ID)
	if s.IsLiked(user.ID, post.ID) {
		t.Error("IsLiked should be false after unlike")
	}
}
