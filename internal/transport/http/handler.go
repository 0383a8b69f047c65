package handlers

import (
	"net/http"
	"time"

	"glassbird/internal/application/auth"
	"glassbird/internal/application/registration"
	"glassbird/internal/application/workspace"
	"glassbird/internal/domain"
	"glassbird/internal/infrastructure/security"
	"glassbird/internal/middleware"
	"glassbird/internal/platform/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	workspace    *workspace.Registry
	registration *registration.UseCase
	confirm      *registration.ConfirmUseCase
	tokens       *security.TokenManager
	log          *logger.Logger
}

func NewAuthHandler(
	ws *workspace.Registry,
	reg *registration.UseCase,
	confirm *registration.ConfirmUseCase,
	tokens *security.TokenManager,
	log *logger.Logger,
) *AuthHandler {
	return &AuthHandler{
		workspace:    ws,
		registration: reg,
		confirm:      confirm,
		tokens:       tokens,
		log:          log.With("handler", "auth"),
	}
}

type relayRegisterReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signupReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Register creates an identity and its profile without signing the caller in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req relayRegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingFields.Error()})
		return
	}

	user, err := h.registration.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		status := http.StatusInternalServerError
		if statusFor(err) == http.StatusBadRequest {
			status = http.StatusBadRequest
		}
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *AuthHandler) Confirm(c *gin.Context) {
	if h.confirm == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "email confirmation is disabled"})
		return
	}
	if err := h.confirm.Confirm(c.Request.Context(), c.Query("token")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"confirmed": true})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, ok := h.manager(c)
	if !ok {
		return
	}

	user, err := m.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondWithToken(c, user)
}

// Signup registers and signs the session in. When email confirmation is on it
// only registers, and the caller signs in after confirming.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if h.confirm != nil {
		h.signupPendingConfirmation(c, req)
		return
	}
	m, ok := h.manager(c)
	if !ok {
		return
	}

	user, err := m.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondWithToken(c, user)
}

func (h *AuthHandler) signupPendingConfirmation(c *gin.Context, req signupReq) {
	if err := auth.ValidateRegistration(req.Name, req.Password); err != nil {
		respondError(c, err)
		return
	}
	user, err := h.registration.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"success": true, "user": user, "confirmation_required": true})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	m.Logout(c.Request.Context())
	c.Status(http.StatusOK)
}

func (h *AuthHandler) Me(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, m.Snapshot())
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var patch domain.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, ok := h.manager(c)
	if !ok {
		return
	}
	if !m.Snapshot().IsAuthenticated {
		respondError(c, domain.ErrUnauthenticated)
		return
	}
	if err := m.UpdateUser(c.Request.Context(), patch); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m.Snapshot())
}

func (h *AuthHandler) manager(c *gin.Context) (*auth.Manager, bool) {
	m, err := h.workspace.Manager(c.Request.Context(), c.GetString(middleware.ContextSessionID))
	if err != nil {
		h.log.Error("failed to open session", "error", err)
		respondError(c, err)
		return nil, false
	}
	return m, true
}

func (h *AuthHandler) respondWithToken(c *gin.Context, user *domain.User) {
	token, err := h.tokens.Generate(user.ID, string(user.Role))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"access_token": token,
	})
}
