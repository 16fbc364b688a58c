package handler

import (
	"appointment-ivr/internal/apierrors"
	"appointment-ivr/internal/auth/processor"
	"appointment-ivr/internal/observability"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ContextKeySubject = "Admin-Subject"

type Handler struct {
	authProcessor processor.AuthProcessor
	logger        *observability.Logger
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func New(authProcessor processor.AuthProcessor, logger *observability.Logger) Handler {
	return Handler{authProcessor: authProcessor, logger: logger}
}

func (h *Handler) HandleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	token, err := h.authProcessor.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token})
}

// HandleJWTMiddleware admits requests carrying a valid bearer token.
func (h *Handler) HandleJWTMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		apierrors.RespondWithError(c, apierrors.Unauthorized("Authorization token is missing or invalid"))
		return
	}

	claims, err := h.authProcessor.ValidateJWTToken(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.Set(ContextKeySubject, claims.Subject)
	ctx := observability.WithFields(c.Request.Context(), observability.Field{Key: "admin", Value: claims.Subject})
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}
