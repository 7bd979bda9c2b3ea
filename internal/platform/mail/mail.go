// Package mail sends transactional email (welcome, OTP) as a best-effort
// side effect: failures are logged and never surfaced to the request that
// triggered them.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Sender is the interface for delivering a single message.
type Sender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// Template defines a reusable mail template. Placeholders use {{key}} syntax.
type Template struct {
	ID      string
	Subject string
	Body    string
}

// TemplateEngine renders registered templates with data.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewTemplateEngine creates a TemplateEngine with the built-in templates
// pre-registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{templates: make(map[string]*Template)}
	e.registerBuiltIn()
	return e
}

func (e *TemplateEngine) registerBuiltIn() {
	builtIn := []Template{
		{
			ID:      "welcome",
			Subject: "Welcome to HospiTex",
			Body:    "Hello {{username}}, you have successfully registered on HospiTex!",
		},
		{
			ID:      "welcome-back",
			Subject: "Welcome Back to HospiTex",
			Body:    "Hello {{username}}, you have successfully logged in!",
		},
		{
			ID:      "verify-otp",
			Subject: "Your Account Verification OTP",
			Body:    "Hello {{username}}, your OTP to verify your account is: {{otp}}. It expires in 5 minutes.",
		},
		{
			ID:      "reset-otp",
			Subject: "Your Password Reset OTP",
			Body:    "Hello {{username}}, your OTP to reset your password is: {{otp}}. It expires in 15 minutes.",
		},
	}
	for i := range builtIn {
		t := builtIn[i]
		e.templates[t.ID] = &t
	}
}

// RegisterTemplate adds or replaces a template in the engine.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = &t
}

// Render looks up a template by ID and performs {{key}} replacement using the
// supplied data map. Keys present in the template but absent from data are
// left as-is.
func (e *TemplateEngine) Render(templateID string, data map[string]string) (subject, body string, err error) {
	e.mu.RLock()
	t, ok := e.templates[templateID]
	e.mu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("template %q not found", templateID)
	}

	subject = t.Subject
	body = t.Body
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		subject = strings.ReplaceAll(subject, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, v)
	}
	return subject, body, nil
}

// SMTPSender delivers mail over SMTP via gomail.
type SMTPSender struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func (s *SMTPSender) SendEmail(_ context.Context, to, subject, body string) error {
	port, err := strconv.Atoi(s.Port)
	if err != nil {
		return fmt.Errorf("invalid smtp port %q: %w", s.Port, err)
	}

	message := gomail.NewMessage()
	message.SetHeader("From", s.From)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/plain", body)

	dialer := gomail.NewDialer(s.Host, port, s.Username, s.Password)
	if err := dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// Mailer renders a template and dispatches it through the sender, swallowing
// delivery errors after logging them. A nil sender disables mail entirely.
type Mailer struct {
	sender    Sender
	templates *TemplateEngine
	logger    zerolog.Logger
}

func NewMailer(sender Sender, templates *TemplateEngine, logger zerolog.Logger) *Mailer {
	return &Mailer{sender: sender, templates: templates, logger: logger}
}

// Send renders templateID with data and delivers it to recipient.
// Always returns nil: mail is a non-critical side effect.
func (m *Mailer) Send(ctx context.Context, templateID, recipient string, data map[string]string) error {
	if m.sender == nil {
		m.logger.Debug().Str("template", templateID).Msg("mail transport not configured, skipping")
		return nil
	}

	subject, body, err := m.templates.Render(templateID, data)
	if err != nil {
		m.logger.Error().Err(err).Str("template", templateID).Msg("mail template render failed")
		return nil
	}

	if err := m.sender.SendEmail(ctx, recipient, subject, body); err != nil {
		m.logger.Warn().Err(err).Str("template", templateID).Str("to", recipient).Msg("mail delivery failed")
	}
	return nil
}

// MockSender is a test double recording sent messages.
type MockSender struct {
	mu         sync.Mutex
	calls      []Call
	ShouldFail bool
}

// Call records a single delivery attempt.
type Call struct {
	To      string
	Subject string
	Body    string
}

func (m *MockSender) SendEmail(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{To: to, Subject: subject, Body: body})
	if m.ShouldFail {
		return errors.New("mock send failure")
	}
	return nil
}

// Calls returns a copy of recorded delivery attempts.
func (m *MockSender) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}
