package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/curagenie/health-api/internal/config"
)

type Service interface {
	SendWelcome(ctx context.Context, to string, name string) error
	SendCriticalAlert(ctx context.Context, to string, metricType string, value float64, message string) error
	SendCustom(ctx context.Context, to string, subject string, content string) error
}

type gomailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(cfg config.SMTPConfig) Service {
	return &gomailService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *gomailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *gomailService) SendWelcome(_ context.Context, to string, name string) error {
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your account is ready. You can now track your vitals, book appointments and chat with our assistant.</p>", name)
	return s.send(to, "Welcome to CuraGenie", body)
}

func (s *gomailService) SendCriticalAlert(_ context.Context, to string, metricType string, value float64, message string) error {
	body := fmt.Sprintf(
		"<p>A critical health reading was recorded on your account.</p><p><b>%s</b>: %.1f</p><p>%s</p><p>Please seek medical attention if symptoms persist.</p>",
		metricType, value, message,
	)
	return s.send(to, "Critical health alert", body)
}

func (s *gomailService) SendCustom(_ context.Context, to string, subject string, content string) error {
	return s.send(to, subject, content)
}

// Noop returns an email service that drops everything. Used when SMTP is not
// configured.
func Noop() Service {
	return noopService{}
}

type noopService struct{}

func (noopService) SendWelcome(context.Context, string, string) error { return nil }
func (noopService) SendCriticalAlert(context.Context, string, string, float64, string) error {
	return nil
}
func (noopService) SendCustom(context.Context, string, string, string) error { return nil }
