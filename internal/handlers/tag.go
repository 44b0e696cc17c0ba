package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"inkwell/internal/store"
)

type TagHandler struct {
	tags store.TagStore
	log  zerolog.Logger
}

func NewTagHandler(tags store.TagStore, log zerolog.Logger) *TagHandler {
	return &TagHandler{tags: tags, log: log}
}

type tagRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

func (h *TagHandler) Index(c *gin.Context) {
	tags, err := h.tags.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("tags: list failed")
		respondInternal(c)
		return
	}

	data := make([]gin.H, len(tags))
	for i := range tags {
		data[i] = tagJSON(&tags[i])
	}
	respond(c, http.StatusOK, "Tags listed successfully.", data)
}

func (h *TagHandler) Store(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	tag, err := h.tags.Create(c.Request.Context(), req.Name)
	if errors.Is(err, store.ErrTagNameTaken) {
		respondFieldErrors(c, map[string][]string{"name": {"This tag name already exists."}})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("tags: create failed")
		respondInternal(c)
		return
	}
	respond(c, http.StatusCreated, "Tag created successfully.", tagJSON(tag))
}

func (h *TagHandler) Show(c *gin.Context) {
	tag, err := h.tags.FindByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Tag not found.")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("tags: find failed")
		respondInternal(c)
		return
	}
	respond(c, http.StatusOK, "Tag retrieved successfully.", tagJSON(tag))
}

func (h *TagHandler) Update(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	tag, err := h.tags.Update(c.Request.Context(), c.Param("id"), req.Name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(c, http.StatusNotFound, "Tag not found.")
		return
	case errors.Is(err, store.ErrTagNameTaken):
		respondFieldErrors(c, map[string][]string{"name": {"This tag name already exists."}})
		return
	case err != nil:
		h.log.Error().Err(err).Msg("tags: update failed")
		respondInternal(c)
		return
	}
	respond(c, http.StatusOK, "Tag updated successfully.", tagJSON(tag))
}

// Destroy removes the tag; posts previously linked to it are untouched.
func (h *TagHandler) Destroy(c *gin.Context) {
	deleted, err := h.tags.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.Error().Err(err).Msg("tags: delete failed")
		respondInternal(c)
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "Tag not found.")
		return
	}
	respond(c, http.StatusOK, "Tag removed successfully.", nil)
}
