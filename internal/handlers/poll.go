package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"tunelink/internal/db"
	"tunelink/internal/services"
	"tunelink/internal/utils"

	"github.com/gin-gonic/gin"
)

type PollHandler struct {
	polls *services.PollService
	media *services.MediaService
}

func NewPollHandler(media *services.MediaService) *PollHandler {
	return &PollHandler{
		polls: services.NewPollService(db.DB),
		media: media,
	}
}

// List 全部活动及歌曲，所有人可见
func (h *PollHandler) List(c *gin.Context) {
	events, err := h.polls.ListEvents()
	if err != nil {
		FailWith(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// Create 创建活动，管理员专用。
// multipart 表单：eventName、names（歌名 JSON 数组）、songs（文件，与歌名一一对应）
func (h *PollHandler) Create(c *gin.Context) {
	eventName := c.PostForm("eventName")

	var names []string
	if raw := c.PostForm("names"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &names); err != nil {
			Fail(c, http.StatusBadRequest, "Invalid names field")
			return
		}
	}

	form, err := c.MultipartForm()
	if err != nil {
		Fail(c, http.StatusBadRequest, "Invalid form data")
		return
	}
	files := form.File["songs"]

	if eventName == "" || len(files) == 0 || len(files) != len(names) {
		Fail(c, http.StatusBadRequest, "Missing or mismatched poll data")
		return
	}

	songs := make([]services.SongInput, 0, len(files))
	for i, fh := range files {
		path, err := h.media.SaveSongMedia(fh)
		if err != nil {
			FailWith(c, err)
			return
		}
		songs = append(songs, services.SongInput{
			Name:      utils.SanitizeText(names[i]),
			MediaPath: path,
		})
	}

	event, err := h.polls.CreateEvent(utils.SanitizeText(eventName), songs)
	if err != nil {
		FailWith(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Poll created", "eventID": event.ID})
}

// Delete 删除活动及歌曲，管理员专用
func (h *PollHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		Fail(c, http.StatusBadRequest, "Invalid event id")
		return
	}

	if err := h.polls.DeleteEvent(uint(id)); err != nil {
		FailWith(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Poll/event deleted successfully"})
}

type voteRequest struct {
	SongID uint `json:"songID"`
}

// Vote 投票，普通用户专用（路由上用 UserOnly 拦管理员）
func (h *PollHandler) Vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SongID == 0 {
		Fail(c, http.StatusBadRequest, "Missing songID")
		return
	}

	votes, err := h.polls.Vote(req.SongID)
	if err != nil {
		FailWith(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vote counted", "votes": votes})
}
