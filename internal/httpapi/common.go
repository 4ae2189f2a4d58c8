package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/auth"
	"classtrack/internal/directory"
)

// listStudents resolves students through the caller's teaching assignment.
// Teachers are scoped to their own assignment for (subjectId, year); admins
// may resolve on behalf of any teacher via teacherId. Caller-supplied
// section hints are never honored, and students get an empty list rather
// than a view into other sections.
func (s *Server) listStudents(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	subjectID := c.Query("subjectId")
	year := c.Query("year")

	var teacherID string
	switch claims.Role {
	case directory.RoleTeacher:
		teacherID = claims.UserID
	case directory.RoleAdmin:
		teacherID = c.Query("teacherId")
	default:
		c.JSON(http.StatusOK, gin.H{"students": []directory.User{}})
		return
	}
	if teacherID == "" || subjectID == "" || year == "" {
		badRequest(c, "subjectId and year are required")
		return
	}

	students, err := s.dir.StudentsForTeacherSubject(c.Request.Context(), teacherID, subjectID, year)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

func (s *Server) profile(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	user, err := s.users.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
