package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"tunelink/internal/db"
	"tunelink/internal/models"
	"tunelink/internal/utils"

	"github.com/gin-gonic/gin"
)

func seedPost(t *testing.T, userID uint, content string) models.Post {
	t.Helper()
	post := models.Post{UserID: userID, Content: content}
	if err := db.DB.Create(&post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	utils.GetCache().Delete("feed:posts")
	return post
}

func TestLikeRequiresAuth(t *testing.T) {
	r := setupAPI(t)

	w := postJSON(t, r, "/api/like", gin.H{"postID": 1}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestLikeToggleTwice(t *testing.T) {
	r := setupAPI(t)
	user := createAccount(t, "artist@example.com", "secret", "user")
	post := seedPost(t, user.ID, "hello")
	cookies := loginCookies(t, r, user.ArtistID, "secret")

	w := postJSON(t, r, "/api/like", gin.H{"postID": post.ID}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("first like: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["message"] != "Liked" {
		t.Errorf("first toggle should respond Liked")
	}

	w = postJSON(t, r, "/api/like", gin.H{"postID": post.ID}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("second like: expected 200, got %d", w.Code)
	}
	if decodeBody(t, w)["message"] != "Unliked" {
		t.Errorf("second toggle should respond Unliked")
	}

	var rows int64
	db.DB.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&rows)
	if rows != 0 {
		t.Errorf("expected 0 like rows after double toggle, got %d", rows)
	}
}

func TestCommentAndList(t *testing.T) {
	r := setupAPI(t)
	user := createAccount(t, "artist@example.com", "secret", "user")
	post := seedPost(t, user.ID, "hello")
	cookies := loginCookies(t, r, user.ArtistID, "secret")

	w := postJSON(t, r, "/api/comment", gin.H{"postID": post.ID, "comment": "nice track"}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("comment: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest("GET", "/api/comments/1", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list comments: expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if body == "[]" || body == "null" {
		t.Error("expected the created comment in the list")
	}
}

func TestPollAdminGating(t *testing.T) {
	r := setupAPI(t)
	user := createAccount(t, "user@example.com", "secret", "user")
	admin := createAccount(t, "admin@example.com", "secret", "admin")

	event := models.Event{Name: "Summer Jam", Songs: []models.Song{{Name: "Song A"}}}
	if err := db.DB.Create(&event).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	songID := event.Songs[0].ID

	userCookies := loginCookies(t, r, user.ArtistID, "secret")
	adminCookies := loginCookies(t, r, admin.ArtistID, "secret")

	// 普通用户不能删活动
	req := httptest.NewRequest("DELETE", "/api/polls/1", nil)
	for _, c := range userCookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("user deleting poll: expected 403, got %d", w.Code)
	}

	// 管理员不能投票
	wr := postJSON(t, r, "/api/vote", gin.H{"songID": songID}, adminCookies)
	if wr.Code != http.StatusForbidden {
		t.Errorf("admin voting: expected 403, got %d", wr.Code)
	}

	// 普通用户投票成功
	wr = postJSON(t, r, "/api/vote", gin.H{"songID": songID}, userCookies)
	if wr.Code != http.StatusOK {
		t.Fatalf("user voting: expected 200, got %d: %s", wr.Code, wr.Body.String())
	}
	if votes, _ := decodeBody(t, wr)["votes"].(float64); votes != 1 {
		t.Errorf("expected 1 vote, got %v", votes)
	}
}

func TestFeedCountsAndAuthors(t *testing.T) {
	r := setupAPI(t)
	user := createAccount(t, "artist@example.com", "secret", "user")
	post := seedPost(t, user.ID, "*hello*")
	cookies := loginCookies(t, r, user.ArtistID, "secret")

	postJSON(t, r, "/api/like", gin.H{"postID": post.ID}, cookies)
	postJSON(t, r, "/api/comment", gin.H{"postID": post.ID, "comment": "nice"}, cookies)

	req := httptest.NewRequest("GET", "/api/posts", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("feed: expected 200, got %d", w.Code)
	}

	var posts []models.Post
	if err := json.Unmarshal(w.Body.Bytes(), &posts); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post in feed, got %d", len(posts))
	}
	got := posts[0]
	if got.ArtistName != user.ArtistName {
		t.Errorf("feed post author = %q, want %q", got.ArtistName, user.ArtistName)
	}
	if got.LikeCount != 1 || got.CommentCount != 1 {
		t.Errorf("feed counts = %d likes / %d comments, want 1/1", got.LikeCount, got.CommentCount)
	}
	if got.ContentHTML == "" {
		t.Error("feed post should carry rendered content HTML")
	}
}

// 删除帖子时其点赞和评论一并删除
func TestPostDeleteRemovesEngagement(t *testing.T) {
	r := setupAPI(t)
	user := createAccount(t, "artist@example.com", "secret", "user")
	post := seedPost(t, user.ID, "hello")
	cookies := loginCookies(t, r, user.ArtistID, "secret")

	if w := postJSON(t, r, "/api/like", gin.H{"postID": post.ID}, cookies); w.Code != http.StatusOK {
		t.Fatalf("like: expected 200, got %d", w.Code)
	}
	if w := postJSON(t, r, "/api/comment", gin.H{"postID": post.ID, "comment": "nice"}, cookies); w.Code != http.StatusOK {
		t.Fatalf("comment: expected 200, got %d", w.Code)
	}

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/post/%d", post.ID), nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("delete post: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var likes, comments, posts int64
	db.DB.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likes)
	db.DB.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&comments)
	db.DB.Model(&models.Post{}).Where("id = ?", post.ID).Count(&posts)
	if posts != 0 || likes != 0 || comments != 0 {
		t.Errorf("expected post and its engagement gone, got posts=%d likes=%d comments=%d", posts, likes, comments)
	}
}
