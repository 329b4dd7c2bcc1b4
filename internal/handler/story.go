package handler

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/lunanest/storytime/internal/ctxkeys"
	"github.com/lunanest/storytime/internal/service"
)

// maxAudioUpload caps narration uploads at 25 MB.
const maxAudioUpload = 25 << 20

var allowedAudioExt = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".m4a":  true,
	".webm": true,
}

type StoryHandler struct {
	storyService *service.StoryService
}

func NewStoryHandler(storyService *service.StoryService) *StoryHandler {
	return &StoryHandler{storyService: storyService}
}

func (h *StoryHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	stories, err := h.storyService.Stories(identity.ID)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"stories": stories})
}

func (h *StoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	story, audio, err := h.storyService.Story(identity.ID, r.PathValue("id"))
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"story": story,
		"audio": audio,
	})
}

func (h *StoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	var req struct {
		Title  string  `json:"title"`
		Story  string  `json:"story"`
		Age    *int    `json:"age"`
		Length *string `json:"length"`
	}
	err := decodeBody(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	story, err := h.storyService.Create(identity.ID, req.Title, req.Story, req.Age, req.Length)
	if err != nil {
		serviceError(w, err)
		return
	}

	slog.Info("story created", "story_id", story.ID, "user_id", identity.ID)
	writeJSON(w, http.StatusCreated, map[string]any{"story": story})
}

// UploadAudio accepts a multipart form with an "audio" file and a "voice"
// field. Uploading for an existing (story, voice) pair replaces the old
// narration.
func (h *StoryHandler) UploadAudio(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())
	storyID := r.PathValue("id")

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioUpload)

	err := r.ParseMultipartForm(maxAudioUpload)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form or file too large")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != "" && !allowedAudioExt[ext] {
		writeError(w, http.StatusBadRequest, "unsupported audio format")
		return
	}

	voice := r.FormValue("voice")

	audio, err := h.storyService.AttachAudio(identity.ID, storyID, voice, file, ext)
	if err != nil {
		serviceError(w, err)
		return
	}

	slog.Info("audio uploaded", "story_id", storyID, "voice", voice, "user_id", identity.ID)
	writeJSON(w, http.StatusCreated, map[string]any{"audio": audio})
}

func (h *StoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	err := h.storyService.Delete(identity.ID, r.PathValue("id"))
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "story deleted"})
}
