package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/Staunch-Software/Drs-backend/config"
	"github.com/Staunch-Software/Drs-backend/internal/model"
	"github.com/Staunch-Software/Drs-backend/internal/repository"
)

//go:embed templates/defect_email.html
var emailTemplates embed.FS

// EmailEvent names a defect lifecycle change announced by email.
type EmailEvent string

const (
	EmailDefectCreated EmailEvent = "CREATED"
	EmailDefectUpdated EmailEvent = "UPDATED"
	EmailDefectClosed  EmailEvent = "CLOSED"
	EmailDefectRemoved EmailEvent = "REMOVED"
)

// EmailService dispatches defect lifecycle emails. Dispatch is
// fire-and-forget: it runs after the triggering transaction committed,
// never blocks the HTTP response, and failures are only logged.
type EmailService interface {
	// SendDefectEvent takes the defect by value so callers can hand over a
	// snapshot captured before a mutation (soft delete reads state first).
	SendDefectEvent(event EmailEvent, defect model.Defect, vesselName string)
}

type emailService struct {
	cfg    *config.MailConfig
	repo   *repository.Repository
	logger *zap.Logger
	tmpl   *template.Template
}

// NewEmailService creates the SMTP-backed EmailService. The embedded
// template is parsed once at startup.
func NewEmailService(cfg *config.MailConfig, repo *repository.Repository, logger *zap.Logger) EmailService {
	tmpl := template.Must(template.ParseFS(emailTemplates, "templates/defect_email.html"))
	return &emailService{cfg: cfg, repo: repo, logger: logger, tmpl: tmpl}
}

func (s *emailService) SendDefectEvent(event EmailEvent, defect model.Defect, vesselName string) {
	if !s.cfg.Enabled() {
		s.logger.Debug("email dispatch disabled, skipping",
			zap.String("event", string(event)),
			zap.String("defect_id", defect.DefectID),
		)
		return
	}

	go s.send(event, defect, vesselName)
}

func (s *emailService) send(event EmailEvent, defect model.Defect, vesselName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	recipients, err := s.recipients(ctx, defect.VesselIMO)
	if err != nil {
		s.logger.Error("resolving email recipients failed",
			zap.String("defect_id", defect.DefectID), zap.Error(err))
		return
	}
	if len(recipients) == 0 {
		s.logger.Warn("no email recipients for defect event",
			zap.String("defect_id", defect.DefectID),
			zap.String("vessel_imo", defect.VesselIMO))
		return
	}

	var body bytes.Buffer
	data := map[string]interface{}{
		"Event":         string(event),
		"Title":         defect.Title,
		"VesselName":    vesselName,
		"VesselIMO":     defect.VesselIMO,
		"EquipmentName": defect.EquipmentName,
		"Description":   defect.Description,
		"Priority":      string(defect.Priority),
		"Status":        string(defect.Status),
	}
	if err := s.tmpl.Execute(&body, data); err != nil {
		s.logger.Error("rendering defect email failed",
			zap.String("defect_id", defect.DefectID), zap.Error(err))
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", recipients...)
	m.SetHeader("Subject", s.subject(event, defect.Title))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		s.logger.Error("sending defect email failed",
			zap.String("defect_id", defect.DefectID),
			zap.String("event", string(event)),
			zap.Error(err))
		return
	}

	s.logger.Info("defect email sent",
		zap.String("defect_id", defect.DefectID),
		zap.String("event", string(event)),
		zap.Int("recipients", len(recipients)),
	)
}

// recipients resolves shore managers and admins linked to the vessel,
// plus the ship's own mailbox, de-duplicated.
func (s *emailService) recipients(ctx context.Context, vesselIMO string) ([]string, error) {
	vessel, err := s.repo.Vessel.GetByIMOWithUsers(ctx, vesselIMO)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var recipients []string
	add := func(email string) {
		if email != "" && !seen[email] {
			seen[email] = true
			recipients = append(recipients, email)
		}
	}

	for i := range vessel.Users {
		user := &vessel.Users[i]
		if !user.IsActive {
			continue
		}
		if user.Role == model.RoleShore || user.Role == model.RoleAdmin {
			add(user.Email)
		}
	}
	if vessel.Email != nil {
		add(*vessel.Email)
	}

	return recipients, nil
}

func (s *emailService) subject(event EmailEvent, title string) string {
	switch event {
	case EmailDefectCreated:
		return fmt.Sprintf("New Defect: %s", title)
	case EmailDefectUpdated:
		return fmt.Sprintf("Defect Updated: %s", title)
	case EmailDefectClosed:
		return fmt.Sprintf("Defect Closed: %s", title)
	case EmailDefectRemoved:
		return fmt.Sprintf("Defect Removed: %s", title)
	}
	return "DRS Notification"
}
