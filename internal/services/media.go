package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"tunelink/internal/models"

	"github.com/google/uuid"
)

// 上传大小限制
const (
	MaxProfilePhotoSize = 5 * 1024 * 1024  // 5MB
	MaxPostMediaSize    = 50 * 1024 * 1024 // 50MB
)

var (
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrMediaTooLarge    = errors.New("media file too large")
)

// MediaService 把上传的媒体文件存到本地目录，通过 /uploads 静态路由对外提供
type MediaService struct {
	dir string
}

func NewMediaService(dir string) (*MediaService, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &MediaService{dir: dir}, nil
}

// SaveProfilePhoto 保存头像，仅接受图片
func (s *MediaService) SaveProfilePhoto(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxProfilePhotoSize {
		return "", ErrMediaTooLarge
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return "", ErrUnsupportedMedia
	}
	return s.save(fh)
}

// SavePostMedia 保存帖子媒体，接受图片或视频，返回路径和媒体类型
func (s *MediaService) SavePostMedia(fh *multipart.FileHeader) (path, mediaType string, err error) {
	if fh.Size > MaxPostMediaSize {
		return "", "", ErrMediaTooLarge
	}

	contentType := fh.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "image/"):
		mediaType = models.MediaTypeImage
	case strings.HasPrefix(contentType, "video/"):
		mediaType = models.MediaTypeVideo
	default:
		return "", "", ErrUnsupportedMedia
	}

	path, err = s.save(fh)
	if err != nil {
		return "", "", err
	}
	return path, mediaType, nil
}

// SaveSongMedia 保存活动歌曲文件
func (s *MediaService) SaveSongMedia(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxPostMediaSize {
		return "", ErrMediaTooLarge
	}
	return s.save(fh)
}

// save 写入磁盘，文件名用 uuid 防碰撞，保留原扩展名
func (s *MediaService) save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("write media file: %w", err)
	}

	return "/uploads/" + name, nil
}

// Dir 本地存储目录（静态路由挂载用）
func (s *MediaService) Dir() string {
	return s.dir
}
