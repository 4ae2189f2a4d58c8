package httpapi

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"classtrack/internal/auth"
	"classtrack/internal/report"
	"classtrack/internal/timetable"
)

func (s *Server) studentTimetable(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	user, err := s.users.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	slots, err := s.slots.ListByClass(c.Request.Context(), user.ClassOrBatch())
	if err != nil {
		writeError(c, err)
		return
	}
	if slots == nil {
		slots = []timetable.Slot{}
	}
	c.JSON(http.StatusOK, gin.H{"timetable": slots})
}

func (s *Server) studentAttendance(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	user, err := s.users.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	views, err := s.attendance.ForStudent(c.Request.Context(), user.ID, user.ClassOrBatch())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendance": views})
}

func (s *Server) studentAttendanceSummary(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	user, err := s.users.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	views, err := s.attendance.ForStudent(c.Request.Context(), user.ID, user.ClassOrBatch())
	if err != nil {
		writeError(c, err)
		return
	}

	type subjectSummary struct {
		Subject    string  `json:"subject"`
		Total      int     `json:"total"`
		Present    int     `json:"present"`
		Percentage float64 `json:"percentage"`
	}
	totals := map[string]*subjectSummary{}
	var present, total int
	for _, v := range views {
		total++
		sub, ok := totals[v.Subject]
		if !ok {
			sub = &subjectSummary{Subject: v.Subject}
			totals[v.Subject] = sub
		}
		sub.Total++
		if v.Status == "present" {
			present++
			sub.Present++
		}
	}
	bySubject := make([]subjectSummary, 0, len(totals))
	for _, sub := range totals {
		sub.Percentage = report.Percentage(sub.Present, sub.Total)
		bySubject = append(bySubject, *sub)
	}
	sort.Slice(bySubject, func(i, j int) bool { return bySubject[i].Subject < bySubject[j].Subject })

	c.JSON(http.StatusOK, gin.H{
		"total":      total,
		"present":    present,
		"absent":     total - present,
		"percentage": report.Percentage(present, total),
		"bySubject":  bySubject,
	})
}
