// Package httpapi wires the REST surface: route groups per role, JSON
// error payloads, and translation of domain errors to HTTP statuses.
package httpapi

import (
	"github.com/gin-gonic/gin"

	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/config"
	"classtrack/internal/directory"
	"classtrack/internal/queue"
	"classtrack/internal/report"
	"classtrack/internal/timetable"
)

// Server carries every handler dependency.
type Server struct {
	cfg        config.App
	users      *directory.Repository
	dir        *directory.Service
	slots      *timetable.Repository
	scheduler  *timetable.Service
	attendance *attendance.Service
	reports    *report.Service
	otp        *auth.OTPService
	jobs       queue.Queue
}

// NewServer builds a server from its dependencies.
func NewServer(cfg config.App, users *directory.Repository, dir *directory.Service,
	slots *timetable.Repository, scheduler *timetable.Service,
	att *attendance.Service, reports *report.Service,
	otp *auth.OTPService, jobs queue.Queue) *Server {
	return &Server{
		cfg:        cfg,
		users:      users,
		dir:        dir,
		slots:      slots,
		scheduler:  scheduler,
		attendance: att,
		reports:    reports,
		otp:        otp,
		jobs:       jobs,
	}
}

// Register mounts all API routes on the engine.
func (s *Server) Register(r *gin.Engine) {
	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", s.login)
	authGroup.POST("/register", s.register)
	authGroup.POST("/forgot-password", s.forgotPassword)
	authGroup.POST("/verify-otp", s.verifyOTP)
	authGroup.POST("/reset-password", s.resetPassword)
	authGroup.GET("/me", auth.Require(s.cfg.JWTSigningKey, s.cfg.JWTIssuer), s.me)

	authed := api.Group("", auth.Require(s.cfg.JWTSigningKey, s.cfg.JWTIssuer))

	admin := authed.Group("/admin", auth.RequireRole(directory.RoleAdmin))
	admin.GET("/users", s.adminListUsers)
	admin.POST("/users", s.adminCreateUser)
	admin.PUT("/users/:id", s.adminUpdateUser)
	admin.DELETE("/users/:id", s.adminDeleteUser)
	admin.POST("/users/:id/assign-section", s.adminAssignSection)
	admin.DELETE("/users/:id/assign-section/:index", s.adminRemoveAssignment)
	admin.POST("/users/:id/assign-mentorship", s.adminAssignMentorship)
	admin.DELETE("/users/:id/assign-mentorship", s.adminRemoveMentorship)
	admin.GET("/subjects", s.adminListSubjects)
	admin.POST("/subjects", s.adminCreateSubject)
	admin.DELETE("/subjects/:id", s.adminDeleteSubject)
	admin.GET("/timetable", s.adminListTimetable)
	admin.POST("/timetable", s.adminCreateSlot)
	admin.POST("/timetable/bulk", s.adminBulkCreateSlots)
	admin.DELETE("/timetable/:id", s.adminDeleteSlot)
	admin.GET("/attendance", s.adminListAttendance)
	admin.GET("/reports/monthly", s.adminMonthlyReport)
	admin.GET("/reports/monthly/csv", s.adminMonthlyReportCSV)
	admin.GET("/teacher-students", s.adminTeacherStudents)

	teacher := authed.Group("/teacher", auth.RequireRole(directory.RoleTeacher))
	teacher.GET("/timetable", s.teacherTimetable)
	teacher.GET("/attendance/check", s.teacherCheckAttendance)
	teacher.POST("/attendance/mark", s.teacherMarkAttendance)
	teacher.GET("/reports", s.teacherReports)
	teacher.GET("/reports/csv", s.teacherReportsCSV)

	student := authed.Group("/student", auth.RequireRole(directory.RoleStudent))
	student.GET("/timetable", s.studentTimetable)
	student.GET("/attendance", s.studentAttendance)
	student.GET("/attendance/summary", s.studentAttendanceSummary)

	authed.GET("/students", s.listStudents)
	authed.GET("/profile", s.profile)
}
