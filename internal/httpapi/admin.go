package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"classtrack/internal/auth"
	"classtrack/internal/directory"
	"classtrack/internal/report"
	"classtrack/internal/timetable"
)

func (s *Server) adminListUsers(c *gin.Context) {
	users, err := s.users.ListUsers(c.Request.Context(), c.Query("role"))
	if err != nil {
		writeError(c, err)
		return
	}
	if users == nil {
		users = []directory.User{}
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (s *Server) adminCreateUser(c *gin.Context) {
	var req struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Password   string `json:"password"`
		Role       string `json:"role"`
		Phone      string `json:"phone"`
		Enrollment string `json:"enrollment"`
		Batch      string `json:"batch"`
		Section    string `json:"section"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := directory.ValidateNewUser(req.Name, req.Email, req.Password, req.Role); err != nil {
		writeError(c, err)
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	user, err := s.dir.CreateUser(c.Request.Context(), directory.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Phone:        req.Phone,
		Enrollment:   req.Enrollment,
		Batch:        req.Batch,
		Section:      req.Section,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (s *Server) adminUpdateUser(c *gin.Context) {
	user, err := s.users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	var req struct {
		Name       *string `json:"name"`
		Email      *string `json:"email"`
		Phone      *string `json:"phone"`
		Enrollment *string `json:"enrollment"`
		Batch      *string `json:"batch"`
		Section    *string `json:"section"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if user.Role == directory.RoleStudent {
		if req.Enrollment != nil {
			user.Enrollment = *req.Enrollment
		}
		if req.Batch != nil {
			user.Batch = *req.Batch
		}
		if req.Section != nil {
			user.Section = *req.Section
		}
	}
	if err := s.users.UpdateUser(c.Request.Context(), user); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (s *Server) adminDeleteUser(c *gin.Context) {
	if err := s.users.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

func (s *Server) adminAssignSection(c *gin.Context) {
	var req struct {
		Year      string `json:"year"`
		Section   string `json:"section"`
		SubjectID string `json:"subjectId"`
		Role      string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	teacher, err := s.dir.AssignSection(c.Request.Context(), c.Param("id"), req.Year, req.Section, req.SubjectID, req.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": teacher})
}

func (s *Server) adminRemoveAssignment(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "index must be a number")
		return
	}
	teacher, err := s.dir.RemoveAssignment(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": teacher})
}

func (s *Server) adminAssignMentorship(c *gin.Context) {
	var req struct {
		Year        string `json:"year"`
		Section     string `json:"section"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	teacher, err := s.dir.AssignMentorship(c.Request.Context(), c.Param("id"), req.Year, req.Section, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": teacher})
}

func (s *Server) adminRemoveMentorship(c *gin.Context) {
	teacher, err := s.dir.RemoveMentorship(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": teacher})
}

func (s *Server) adminListSubjects(c *gin.Context) {
	subjects, err := s.users.ListSubjects(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if subjects == nil {
		subjects = []directory.Subject{}
	}
	c.JSON(http.StatusOK, gin.H{"subjects": subjects})
}

func (s *Server) adminCreateSubject(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Code     string `json:"code" binding:"required"`
		Year     string `json:"year" binding:"required"`
		Semester string `json:"semester" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name, code, year and semester are required")
		return
	}
	subject, err := s.users.CreateSubject(c.Request.Context(), directory.Subject{
		Name:     req.Name,
		Code:     req.Code,
		Year:     req.Year,
		Semester: req.Semester,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"subject": subject})
}

func (s *Server) adminDeleteSubject(c *gin.Context) {
	if err := s.users.DeleteSubject(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "subject deleted"})
}

func (s *Server) adminListTimetable(c *gin.Context) {
	slots, err := s.slots.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if slots == nil {
		slots = []timetable.Slot{}
	}
	c.JSON(http.StatusOK, gin.H{"timetable": slots})
}

// slotRequest is the slot creation payload, shared by single and bulk create.
type slotRequest struct {
	SubjectID    string `json:"subjectId"`
	TeacherID    string `json:"teacherId"`
	ClassOrBatch string `json:"classOrBatch"`
	DayOfWeek    *int   `json:"dayOfWeek"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	SlotType     string `json:"slotType"`
	Room         string `json:"room"`
	Notes        string `json:"notes"`
}

func (req slotRequest) toSlot() timetable.Slot {
	day := -1
	if req.DayOfWeek != nil {
		day = *req.DayOfWeek
	}
	return timetable.Slot{
		SubjectID:    req.SubjectID,
		TeacherID:    req.TeacherID,
		ClassOrBatch: req.ClassOrBatch,
		DayOfWeek:    day,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		SlotType:     req.SlotType,
		Room:         req.Room,
		Notes:        req.Notes,
	}
}

func (s *Server) adminCreateSlot(c *gin.Context) {
	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	slot, err := s.scheduler.Create(c.Request.Context(), req.toSlot())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"slot": slot})
}

func (s *Server) adminBulkCreateSlots(c *gin.Context) {
	var req struct {
		Slots []slotRequest `json:"slots" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "slots array is required")
		return
	}
	candidates := make([]timetable.Slot, 0, len(req.Slots))
	for _, sr := range req.Slots {
		candidates = append(candidates, sr.toSlot())
	}
	result, err := s.scheduler.BulkCreate(c.Request.Context(), candidates)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusCreated
	if result.Created < result.Requested {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

func (s *Server) adminDeleteSlot(c *gin.Context) {
	if err := s.slots.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "slot deleted"})
}

func (s *Server) adminListAttendance(c *gin.Context) {
	docs, err := s.attendance.All(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendance": docs})
}

func monthYearParams(c *gin.Context) (int, int, bool) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		badRequest(c, "month must be 1-12")
		return 0, 0, false
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2200 {
		badRequest(c, "year must be a four-digit year")
		return 0, 0, false
	}
	return month, year, true
}

func monthlyFilter(c *gin.Context) report.MonthlyFilter {
	return report.MonthlyFilter{
		ClassOrBatch: c.Query("class"),
		SubjectID:    c.Query("subjectId"),
		TeacherID:    c.Query("teacherId"),
	}
}

func (s *Server) adminMonthlyReport(c *gin.Context) {
	month, year, ok := monthYearParams(c)
	if !ok {
		return
	}
	monthly, err := s.reports.Monthly(c.Request.Context(), month, year, monthlyFilter(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, monthly)
}

func (s *Server) adminMonthlyReportCSV(c *gin.Context) {
	month, year, ok := monthYearParams(c)
	if !ok {
		return
	}
	docs, err := s.reports.MonthlyDocuments(c.Request.Context(), month, year, monthlyFilter(c))
	if err != nil {
		writeError(c, err)
		return
	}
	filename := "attendance_" + time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006_01") + ".csv"
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := report.WriteCSV(c.Writer, docs, true); err != nil {
		writeError(c, err)
	}
}

func (s *Server) adminTeacherStudents(c *gin.Context) {
	teacherID := c.Query("teacherId")
	subjectID := c.Query("subjectId")
	year := c.Query("year")
	if teacherID == "" || subjectID == "" || year == "" {
		badRequest(c, "teacherId, subjectId and year are required")
		return
	}
	students, err := s.dir.StudentsForTeacherSubject(c.Request.Context(), teacherID, subjectID, year)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}
