package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/report"
	"classtrack/internal/timetable"
)

func (s *Server) teacherTimetable(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	var day *int
	if v := c.Query("day"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 || parsed > 6 {
			badRequest(c, "day must be 0-6")
			return
		}
		day = &parsed
	}
	slots, err := s.slots.ListByTeacher(c.Request.Context(), claims.UserID, day)
	if err != nil {
		writeError(c, err)
		return
	}
	if slots == nil {
		slots = []timetable.Slot{}
	}
	c.JSON(http.StatusOK, gin.H{"timetable": slots})
}

func (s *Server) teacherCheckAttendance(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	timetableID := c.Query("timetableId")
	date := c.Query("date")
	if timetableID == "" || !attendance.ValidDate(date) {
		badRequest(c, "timetableId and date (YYYY-MM-DD) are required")
		return
	}
	doc, err := s.attendance.Check(c.Request.Context(), claims.UserID, timetableID, date)
	if err != nil {
		writeError(c, err)
		return
	}
	if doc == nil {
		c.JSON(http.StatusOK, gin.H{"marked": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": true, "attendance": doc})
}

func (s *Server) teacherMarkAttendance(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	var req struct {
		Date        string                     `json:"date" binding:"required"`
		TimetableID string                     `json:"timetableId" binding:"required"`
		Records     []attendance.StudentRecord `json:"records" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "date, timetableId and records are required")
		return
	}
	doc, err := s.attendance.Mark(c.Request.Context(), claims.UserID, req.TimetableID, req.Date, req.Records)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendance": doc})
}

func (s *Server) teacherReports(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	docs, err := s.attendance.ForTeacher(c.Request.Context(), claims.UserID, c.Query("subjectId"))
	if err != nil {
		writeError(c, err)
		return
	}
	if docs == nil {
		docs = []attendance.Document{}
	}
	c.JSON(http.StatusOK, gin.H{"attendance": docs})
}

func (s *Server) teacherReportsCSV(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	docs, err := s.attendance.ForTeacher(c.Request.Context(), claims.UserID, c.Query("subjectId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="attendance_report.csv"`)
	if err := report.WriteCSV(c.Writer, docs, false); err != nil {
		writeError(c, err)
	}
}
