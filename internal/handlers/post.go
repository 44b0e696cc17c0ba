package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"inkwell/internal/middleware"
	"inkwell/internal/store"
)

type PostHandler struct {
	posts    store.PostStore
	users    store.UserStore
	comments store.CommentStore
	log      zerolog.Logger
}

func NewPostHandler(posts store.PostStore, users store.UserStore, comments store.CommentStore, log zerolog.Logger) *PostHandler {
	return &PostHandler{posts: posts, users: users, comments: comments, log: log}
}

type createPostRequest struct {
	Title   string   `json:"title" binding:"required,max=255"`
	Content string   `json:"content" binding:"required"`
	Author  string   `json:"author" binding:"required"`
	Tags    []string `json:"tags" binding:"omitempty,dive,max=50"`
}

type updatePostRequest struct {
	Title   *string   `json:"title" binding:"omitempty,max=255"`
	Content *string   `json:"content" binding:"omitempty"`
	Author  *string   `json:"author" binding:"omitempty"`
	Tags    *[]string `json:"tags" binding:"omitempty,dive,max=50"`
}

type commentRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

// Index lists posts, optionally narrowed by exactly one of ?tag and ?query.
func (h *PostHandler) Index(c *gin.Context) {
	page, perPage := pageParams(c)

	filter := store.PostFilter{}
	if tag := c.Query("tag"); tag != "" {
		filter.Tag = tag
	} else if query := c.Query("query"); query != "" {
		filter.Query = query
	}

	posts, total, err := h.posts.List(c.Request.Context(), filter, page, perPage)
	if err != nil {
		h.log.Error().Err(err).Msg("posts: list failed")
		respondInternal(c)
		return
	}
	respondPaginated(c, "Posts listed successfully.", postListJSON(posts), pageMeta(page, perPage, total, len(posts)))
}

func (h *PostHandler) Store(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	if _, err := h.users.FindByID(c.Request.Context(), req.Author); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondFieldErrors(c, map[string][]string{"author": {"The selected author does not exist."}})
			return
		}
		h.log.Error().Err(err).Msg("posts: author lookup failed")
		respondInternal(c)
		return
	}

	post, err := h.posts.Create(c.Request.Context(), store.PostInput{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: req.Author,
		Tags:     req.Tags,
	})
	if err != nil {
		if errors.Is(err, store.ErrAuthorMissing) {
			// author vanished between the check and the insert
			respondError(c, http.StatusBadRequest, "integrity constraint violated")
			return
		}
		h.log.Error().Err(err).Msg("posts: create failed")
		respondInternal(c)
		return
	}
	respond(c, http.StatusCreated, "Post created successfully.", postJSON(post))
}

// Show returns the post along with its comments, newest first.
func (h *PostHandler) Show(c *gin.Context) {
	post, err := h.posts.FindByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Post not found.")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("posts: find failed")
		respondInternal(c)
		return
	}

	comments, err := h.comments.FindByPost(c.Request.Context(), post.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("posts: comments lookup failed")
		respondInternal(c)
		return
	}

	data := postJSON(post)
	list := make([]gin.H, len(comments))
	for i := range comments {
		list[i] = commentJSON(&comments[i])
	}
	data["comments"] = list
	respond(c, http.StatusOK, "Post retrieved successfully.", data)
}

func (h *PostHandler) Update(c *gin.Context) {
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	if req.Author != nil {
		if _, err := h.users.FindByID(c.Request.Context(), *req.Author); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondFieldErrors(c, map[string][]string{"author": {"The selected author does not exist."}})
				return
			}
			h.log.Error().Err(err).Msg("posts: author lookup failed")
			respondInternal(c)
			return
		}
	}

	post, err := h.posts.Update(c.Request.Context(), c.Param("id"), store.PostUpdate{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: req.Author,
		Tags:     req.Tags,
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(c, http.StatusNotFound, "Post not found.")
		return
	case errors.Is(err, store.ErrAuthorMissing):
		respondError(c, http.StatusBadRequest, "integrity constraint violated")
		return
	case err != nil:
		h.log.Error().Err(err).Msg("posts: update failed")
		respondInternal(c)
		return
	}
	respond(c, http.StatusOK, "Post updated successfully.", postJSON(post))
}

func (h *PostHandler) Destroy(c *gin.Context) {
	deleted, err := h.posts.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.Error().Err(err).Msg("posts: delete failed")
		respondInternal(c)
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "Post not found.")
		return
	}
	respond(c, http.StatusOK, "Post removed successfully.", nil)
}

// AddComment attaches a comment authored by the bearer-token user.
func (h *PostHandler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	comment, err := h.comments.Create(c.Request.Context(), c.Param("id"), user.ID, req.Content)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Post not found.")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("comments: create failed")
		respondInternal(c)
		return
	}

	data := commentJSON(comment)
	data["post_id"] = comment.PostID
	respond(c, http.StatusCreated, "Comment added successfully.", data)
}

func (h *PostHandler) DeleteComment(c *gin.Context) {
	comment, err := h.comments.FindByID(c.Request.Context(), c.Param("cid"))
	if errors.Is(err, store.ErrNotFound) || (err == nil && comment.PostID != c.Param("id")) {
		respondError(c, http.StatusNotFound, "Comment not found.")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("comments: find failed")
		respondInternal(c)
		return
	}

	deleted, err := h.comments.Delete(c.Request.Context(), comment.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("comments: delete failed")
		respondInternal(c)
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "Comment not found.")
		return
	}
	respond(c, http.StatusOK, "Comment removed successfully.", nil)
}
