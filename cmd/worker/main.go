package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"classtrack/internal/config"
	"classtrack/internal/mailer"
	"classtrack/internal/queue"
	"classtrack/internal/store"
)

// Worker consumes queued OTP jobs and delivers the codes over SMTP.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "classtrack:otp-mails")
	}

	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPPassword)
	if mail == nil {
		log.Println("SMTP not configured; codes will be logged, not mailed")
	}

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		if msg.Type != "otp" {
			continue
		}

		var job struct {
			Email string `json:"email"`
			Code  string `json:"code"`
		}
		if err := json.Unmarshal(msg.Body, &job); err != nil {
			log.Printf("bad otp job payload: %v", err)
			continue
		}

		if err := mail.SendOTP(job.Email, job.Code); err != nil {
			log.Printf("otp mail to %s failed: %v", job.Email, err)
			continue
		}
		log.Printf("otp mail delivered to %s", job.Email)
	}

	log.Println("worker stopped")
}
