package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
	"inkwell/internal/token"
)

type AuthHandler struct {
	users  store.UserStore
	tokens *token.Service
	log    zerolog.Logger
}

func NewAuthHandler(users store.UserStore, tokens *token.Service, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, log: log}
}

type registerRequest struct {
	Nome     string  `json:"nome" binding:"required,max=255"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	Telefone *string `json:"telefone" binding:"omitempty,max=20"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	if _, err := h.users.FindByEmail(c.Request.Context(), req.Email); err == nil {
		respondFieldErrors(c, map[string][]string{
			"email": {"This email is already registered. Use another email or log in."},
		})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.log.Error().Err(err).Msg("register: email lookup failed")
		respondInternal(c)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.Error().Err(err).Msg("register: password hash failed")
		respondInternal(c)
		return
	}

	user := models.User{
		Nome:     req.Nome,
		Email:    req.Email,
		Password: string(hash),
	}
	if req.Telefone != nil {
		user.Telefone = *req.Telefone
	}
	if err := h.users.Create(c.Request.Context(), &user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			respondFieldErrors(c, map[string][]string{
				"email": {"This email is already registered. Use another email or log in."},
			})
			return
		}
		h.log.Error().Err(err).Msg("register: create failed")
		respondInternal(c)
		return
	}

	signed, err := h.tokens.Issue(&user)
	if err != nil {
		h.log.Error().Err(err).Msg("register: token issue failed")
		respondInternal(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully.",
		"user":    userJSON(&user),
		"token":   signed,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusUnauthorized, "Invalid credentials. Check your email and password.")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("login: email lookup failed")
		respondInternal(c)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		respondError(c, http.StatusUnauthorized, "Invalid credentials. Check your email and password.")
		return
	}

	signed, err := h.tokens.Issue(user)
	if err != nil {
		h.log.Error().Err(err).Msg("login: token issue failed")
		respondInternal(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful.",
		"user":    userJSON(user),
		"token":   signed,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.tokens.Revoke(c.Request.Context(), middleware.BearerToken(c)); err != nil {
		h.log.Error().Err(err).Msg("logout: revoke failed")
		respondInternal(c)
		return
	}
	respond(c, http.StatusOK, "Logout successful.", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, "token invalid")
		return
	}
	respond(c, http.StatusOK, "User data retrieved successfully.", userJSON(user))
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	signed, err := h.tokens.Refresh(c.Request.Context(), middleware.BearerToken(c))
	if err != nil {
		switch {
		case errors.Is(err, token.ErrMissing), errors.Is(err, token.ErrExpired), errors.Is(err, token.ErrInvalid):
			respondError(c, http.StatusUnauthorized, "token invalid")
		default:
			h.log.Error().Err(err).Msg("refresh failed")
			respondInternal(c)
		}
		return
	}
	respond(c, http.StatusOK, "Token refreshed successfully.", gin.H{"token": signed})
}
