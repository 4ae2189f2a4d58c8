package httpapi

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/directory"
	"classtrack/internal/store"
	"classtrack/internal/timetable"
)

// writeError maps domain errors onto the HTTP taxonomy: 400 for validation,
// duplicates and scheduling conflicts, 403 for ownership violations, 404
// for missing resources, 500 (logged, generic message) for the rest.
func writeError(c *gin.Context, err error) {
	var (
		conflictErr  *timetable.ConflictError
		duplicateErr *store.DuplicateError
		dirInvalid   *directory.ValidationError
		attInvalid   *attendance.ValidationError
	)
	switch {
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": conflictErr.Error(), "conflicts": conflictErr.Conflicts})
	case errors.As(err, &duplicateErr), errors.As(err, &dirInvalid), errors.As(err, &attInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case isOTPError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, attendance.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, directory.ErrNotFound), errors.Is(err, timetable.ErrNotFound), errors.Is(err, attendance.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func isOTPError(err error) bool {
	return errors.Is(err, auth.ErrOTPNotFound) ||
		errors.Is(err, auth.ErrOTPExpired) ||
		errors.Is(err, auth.ErrOTPLocked) ||
		errors.Is(err, auth.ErrOTPMismatch) ||
		errors.Is(err, auth.ErrOTPNotVerified)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// userJSON is the compact user payload returned by login and /me.
func userJSON(u directory.User) gin.H {
	return gin.H{
		"_id":          u.ID,
		"name":         u.Name,
		"email":        u.Email,
		"role":         u.Role,
		"classOrBatch": u.ClassOrBatch(),
	}
}
