package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

type UserHandler struct {
	users store.UserStore
	log   zerolog.Logger
}

func NewUserHandler(users store.UserStore, log zerolog.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

type createUserRequest struct {
	Nome     string  `json:"nome" binding:"required,max=255"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	Telefone *string `json:"telefone" binding:"omitempty,max=20"`
	IsValid  *bool   `json:"is_valid"`
}

type updateUserRequest struct {
	Nome     *string `json:"nome" binding:"omitempty,max=255"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
	Telefone *string `json:"telefone" binding:"omitempty,max=20"`
	IsValid  *bool   `json:"is_valid"`
}

func (h *UserHandler) Index(c *gin.Context) {
	page, perPage := pageParams(c)

	users, total, err := h.users.List(c.Request.Context(), page, perPage)
	if err != nil {
		h.log.Error().Err(err).Msg("users: list failed")
		respondInternal(c)
		return
	}

	data := make([]gin.H, len(users))
	for i := range users {
		data[i] = userJSON(&users[i])
	}
	respondPaginated(c, "Users listed successfully.", data, pageMeta(page, perPage, total, len(users)))
}

func (h *UserHandler) Store(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.Error().Err(err).Msg("users: password hash failed")
		respondInternal(c)
		return
	}

	user := models.User{
		Nome:     req.Nome,
		Email:    req.Email,
		Password: string(hash),
		IsValid:  req.IsValid,
	}
	if req.Telefone != nil {
		user.Telefone = *req.Telefone
	}
	if err := h.users.Create(c.Request.Context(), &user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			respondFieldErrors(c, map[string][]string{"email": {"This email is already in use."}})
			return
		}
		h.log.Error().Err(err).Msg("users: create failed")
		respondInternal(c)
		return
	}
	respond(c, http.StatusCreated, "User created successfully.", userJSON(&user))
}

func (h *UserHandler) Show(c *gin.Context) {
	user, err := h.users.FindByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "User not found.")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("users: find failed")
		respondInternal(c)
		return
	}
	respond(c, http.StatusOK, "User retrieved successfully.", userJSON(user))
}

func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	upd := store.UserUpdate{
		Nome:     req.Nome,
		Email:    req.Email,
		Telefone: req.Telefone,
		IsValid:  req.IsValid,
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.log.Error().Err(err).Msg("users: password hash failed")
			respondInternal(c)
			return
		}
		hashed := string(hash)
		upd.Password = &hashed
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), upd)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(c, http.StatusNotFound, "User not found.")
		return
	case errors.Is(err, store.ErrEmailTaken):
		respondFieldErrors(c, map[string][]string{"email": {"This email is already in use."}})
		return
	case err != nil:
		h.log.Error().Err(err).Msg("users: update failed")
		respondInternal(c)
		return
	}
	respond(c, http.StatusOK, "User updated successfully.", userJSON(user))
}

func (h *UserHandler) Destroy(c *gin.Context) {
	deleted, err := h.users.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.Error().Err(err).Msg("users: delete failed")
		respondInternal(c)
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "User not found.")
		return
	}
	respond(c, http.StatusOK, "User removed successfully.", nil)
}
