package httpapi

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/auth"
	"classtrack/internal/directory"
	"classtrack/internal/queue"
)

func (s *Server) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}

	user, err := s.users.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		badRequest(c, "invalid email or password")
		return
	}

	token, _, err := auth.Issue(user.ID, user.Role, s.cfg.JWTIssuer, s.cfg.JWTSigningKey, s.cfg.TokenTTL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": userJSON(user)})
}

func (s *Server) me(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	user, err := s.users.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

func (s *Server) register(c *gin.Context) {
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
	_, err = s.dir.CreateUser(c.Request.Context(), directory.User{
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
	c.JSON(http.StatusCreated, gin.H{"message": "registered successfully"})
}

// otpJob is the queue payload for asynchronous mail delivery.
type otpJob struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (s *Server) forgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email is required")
		return
	}

	user, err := s.users.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, err)
		return
	}

	code, err := s.otp.Begin(c.Request.Context(), user.Email)
	if err != nil {
		writeError(c, err)
		return
	}

	if s.cfg.MailConfigured() {
		body, _ := json.Marshal(otpJob{Email: user.Email, Code: code})
		if err := s.jobs.Publish(c.Request.Context(), queue.Message{Type: "otp", Body: body}); err != nil {
			log.Printf("otp job publish failed: %v", err)
			log.Printf("OTP for %s: %s", user.Email, code)
		}
	} else {
		log.Printf("mail not configured; OTP for %s: %s", user.Email, code)
	}

	c.JSON(http.StatusOK, gin.H{"message": "reset code sent"})
}

func (s *Server) verifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		OTP   string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and otp are required")
		return
	}
	if err := s.otp.Verify(c.Request.Context(), req.Email, req.OTP); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "code verified"})
}

func (s *Server) resetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required"`
		OTP         string `json:"otp" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email, otp and newPassword are required")
		return
	}
	if len(req.NewPassword) < 6 {
		badRequest(c, "password must be at least 6 characters")
		return
	}
	if err := s.otp.Consume(c.Request.Context(), req.Email, req.OTP); err != nil {
		writeError(c, err)
		return
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.users.UpdatePassword(c.Request.Context(), req.Email, hash); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset successfully"})
}
