package handler

import (
	"net/http"

	"github.com/lunanest/storytime/internal/ctxkeys"
	"github.com/lunanest/storytime/internal/service"
)

type FolderHandler struct {
	folderService *service.FolderService
}

func NewFolderHandler(folderService *service.FolderService) *FolderHandler {
	return &FolderHandler{folderService: folderService}
}

func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	folders, err := h.folderService.Folders(identity.ID)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"folders": folders})
}

func (h *FolderHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	folder, err := h.folderService.ByID(identity.ID, r.PathValue("id"))
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"folder": folder})
}

func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	err := decodeBody(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	folder, err := h.folderService.Create(identity.ID, req.Name, req.Description)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"folder": folder})
}

func (h *FolderHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	err := decodeBody(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	folder, err := h.folderService.Update(identity.ID, r.PathValue("id"), req.Name, req.Description)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"folder": folder})
}

func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	err := h.folderService.Delete(identity.ID, r.PathValue("id"))
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "folder deleted"})
}

func (h *FolderHandler) Stories(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	stories, err := h.folderService.Stories(identity.ID, r.PathValue("id"))
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"stories": stories})
}

func (h *FolderHandler) AddStory(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	var req struct {
		StoryID string `json:"storyId"`
	}
	err := decodeBody(r, &req)
	if err != nil || req.StoryID == "" {
		writeError(w, http.StatusBadRequest, "storyId is required")
		return
	}

	err = h.folderService.AddStory(identity.ID, r.PathValue("id"), req.StoryID)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "story added to folder"})
}

func (h *FolderHandler) RemoveStory(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	err := h.folderService.RemoveStory(identity.ID, r.PathValue("id"), r.PathValue("storyId"))
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "story removed from folder"})
}
