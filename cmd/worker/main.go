package main

import (
	"log"

	"cinema/internal/config"
	"cinema/internal/mailer"
	"cinema/internal/queue"

	"github.com/joho/godotenv"
)

// メール送信ワーカー。email.requestedキューを購読してSMTPで送る。
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if cfg.SMTPHost == "" || cfg.SMTPUser == "" {
		log.Fatal("SMTP_HOST and SMTP_USER are required for the email worker")
	}

	m := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)

	log.Printf("email worker: consuming %s", queue.EmailQueueName)
	if err := queue.StartEmailConsumer(cfg.AmqpURL, m.Send); err != nil {
		log.Fatalf("email worker: %v", err)
	}
}
