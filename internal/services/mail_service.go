package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"path/filepath"
	"strings"

	"farejo/internal/models"
	"farejo/internal/utils"

	"github.com/sirupsen/logrus"
)

type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	// directory holding the email/*.html templates
	TemplatesDir string
}

type MailService struct {
	cfg     MailConfig
	Enabled bool
	send    func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailService(cfg MailConfig) *MailService {
	enabled := cfg.Host != "" && cfg.Port != "" && cfg.Username != "" && cfg.Password != "" && cfg.From != ""
	if !enabled {
		utils.LogInfo("MailService disabled: missing SMTP environment variables")
	}
	return &MailService{cfg: cfg, Enabled: enabled, send: smtp.SendMail}
}

func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: Farejo <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.cfg.From, subject, mime, body))

		fields := logrus.Fields{"to": to, "subject": subject}
		if err := s.send(addr, auth, s.cfg.From, to, msg); err != nil {
			utils.LogWithFields(fields).WithError(err).Error("failed to send email")
			return
		}
		utils.LogWithFields(fields).Info("email sent")
	}()
}

func (s *MailService) render(templateName string, data interface{}) (string, error) {
	path := filepath.Join(s.cfg.TemplatesDir, "email", templateName)
	t, err := template.ParseFiles(path)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}
	return buf.String(), nil
}

// SendSightingNotification tells the person who posted the listing that
// somebody saw the dog. Listings without a contact email are skipped.
func (s *MailService) SendSightingNotification(listing models.Listing, sighting models.Sighting, link string) {
	if !s.Enabled || listing.Contact.Email == "" {
		return
	}

	body, err := s.render("sighting.html", map[string]interface{}{
		"ContactName": listing.Contact.Name,
		"DogName":     listing.DisplayName(),
		"Sighting":    sighting,
		"Link":        link,
	})
	if err != nil {
		utils.LogError(err, "Error rendering sighting email")
		return
	}
	s.sendAsync([]string{listing.Contact.Email}, "🐾 Novo avistamento de "+listing.DisplayName(), body)
}
