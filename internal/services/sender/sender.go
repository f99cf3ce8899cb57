// Package services содержит отправку писем о записи на уроки.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	libsmtp "github.com/avdeevakate/online-school/internal/lib/smtp"
	"github.com/avdeevakate/online-school/internal/lib/sl"
	"github.com/avdeevakate/online-school/internal/models"
)

// SenderService превращает события записи на уроки в письма студентам.
type SenderService struct {
	transport libsmtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport libsmtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendEnrollmentNotification отправляет письмо по событию записи либо отписки.
// События пользователей без электронной почты пропускаются без ошибки.
func (s *SenderService) SendEnrollmentNotification(body []byte) error {
	var message models.EnrollmentEvent
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("Failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	if message.Email == "" {
		s.log.Info("skipping enrollment event without email",
			slog.String("username", message.Username))
		return nil
	}

	to := []string{message.Email}
	var subject, bodyText string
	switch message.Action {
	case models.EnrollmentActionUnregistered:
		subject = "Отмена записи на урок"
		bodyText = fmt.Sprintf("Здравствуйте, %s!\n\nВаша запись на урок «%s» отменена.\n\nЕсли это сделали не вы, обратитесь в поддержку онлайн-школы.",
			message.Name, message.LessonName)
	default:
		subject = "Запись на урок подтверждена"
		bodyText = fmt.Sprintf("Здравствуйте, %s!\n\nВы записаны на урок «%s».\n\nЖдём вас на занятии!",
			message.Name, message.LessonName)
	}

	return s.sendEmail(to, subject, bodyText)
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
		s.log.Error("Failed to connect to SMTP server", "error", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("Failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("Failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("Failed to get Data writer", "error", sl.Err(err))
		return err
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		s.log.Error("Failed to write message body", "error", sl.Err(err))
		return err
	}
	if err := wc.Close(); err != nil {
		s.log.Error("Failed to close Data writer", "error", sl.Err(err))
		return err
	}

	if err := client.Quit(); err != nil {
		s.log.Warn("Failed to quit SMTP session", "error", sl.Err(err))
	}
	s.log.Info("sent enrollment email", slog.String("to", strings.Join(to, ";")))
	return nil
}
