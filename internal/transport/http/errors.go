package handlers

import (
	"errors"
	"net/http"

	"glassbird/internal/application/registration"
	"glassbird/internal/domain"

	"github.com/gin-gonic/gin"
)

var statusByError = []struct {
	err    error
	status int
}{
	{domain.ErrMissingFields, http.StatusBadRequest},
	{domain.ErrWeakPassword, http.StatusBadRequest},
	{domain.ErrInvalidName, http.StatusBadRequest},
	{domain.ErrInvalidLesson, http.StatusBadRequest},
	{domain.ErrInvalidSubLesson, http.StatusBadRequest},
	{domain.ErrScoreDecrease, http.StatusBadRequest},
	{domain.ErrInvalidScore, http.StatusBadRequest},
	{registration.ErrInvalidConfirmToken, http.StatusBadRequest},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrUnknownCourse, http.StatusNotFound},
	{domain.ErrUnknownLesson, http.StatusNotFound},
	{domain.ErrUnknownSubLesson, http.StatusNotFound},
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrUserAlreadyExists, http.StatusConflict},
	{domain.ErrSubLessonLocked, http.StatusConflict},
	{domain.ErrTimeout, http.StatusGatewayTimeout},
}

func statusFor(err error) int {
	for _, e := range statusByError {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
