// Profile HTTP handlers.
//
// This file exposes REST endpoints for the caller's nutritional profile:
//   - GET    /profile   (read)
//   - PUT    /profile   (replace)
//   - DELETE /profile   (remove the account and all of its analyses)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutrismart/go-nutrition-backend/internal/domain"
	"github.com/nutrismart/go-nutrition-backend/internal/services"
)

// GetProfile handles GET /profile.
func (h *Handlers) GetProfile(c *gin.Context) {
	p, err := h.profileSvc.Get(c.Request.Context(), userID(c))
	switch {
	case err == nil:
		ok(c, http.StatusOK, p)
	case errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// UpdateProfile handles PUT /profile. The payload replaces the stored
// profile wholesale; partial updates are not supported.
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var p domain.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "all profile fields are required")
		return
	}

	err := h.profileSvc.Update(c.Request.Context(), userID(c), p)
	switch {
	case err == nil:
		noContent(c)
	case errors.Is(err, services.ErrInvalidProfile):
		fail(c, http.StatusUnprocessableEntity, ErrCodeInvalidProfile, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// DeleteProfile handles DELETE /profile. The account and every analysis it
// owns are removed atomically; there is no undo.
func (h *Handlers) DeleteProfile(c *gin.Context) {
	err := h.profileSvc.DeleteAccount(c.Request.Context(), userID(c))
	switch {
	case err == nil:
		noContent(c)
	case errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
