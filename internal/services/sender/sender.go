// Package services содержит сервис отправки писем с одноразовыми кодами.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/sanitation-identity/internal/lib/sl"
	"github.com/magabrotheeeer/sanitation-identity/internal/lib/smtp"
	"github.com/magabrotheeeer/sanitation-identity/internal/models"
)

// SenderService отправляет письма с кодами подтверждения почты и сброса пароля.
type SenderService struct {
	transport       smtp.TransportInterface
	log             *slog.Logger
	verificationTTL time.Duration
	resetTTL        time.Duration
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface,
	verificationTTL, resetTTL time.Duration) *SenderService {
	return &SenderService{
		transport:       transport,
		log:             log,
		verificationTTL: verificationTTL,
		resetTTL:        resetTTL,
	}
}

// SendVerificationCode отправляет письмо с кодом подтверждения почты.
func (s *SenderService) SendVerificationCode(body []byte) error {
	var job models.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subject := "Подтверждение почты"
	bodyText := fmt.Sprintf("Здравствуйте!\n\nВаш код подтверждения почты: %s.\n\nКод действует %d минут. Если вы не регистрировались, просто проигнорируйте это письмо.",
		job.Code, int(s.verificationTTL.Minutes()))

	return s.sendEmail([]string{job.Email}, subject, bodyText)
}

// SendResetCode отправляет письмо с кодом сброса пароля.
func (s *SenderService) SendResetCode(body []byte) error {
	var job models.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subject := "Сброс пароля"
	bodyText := fmt.Sprintf("Здравствуйте!\n\nВаш код для сброса пароля: %s.\n\nКод действует %d минут. Если вы не запрашивали сброс пароля, просто проигнорируйте это письмо.",
		job.Code, int(s.resetTTL.Minutes()))

	return s.sendEmail([]string{job.Email}, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
