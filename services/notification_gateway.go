package services

import (
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"faculty-portal-api/config"
	"faculty-portal-api/models"

	"gorm.io/gorm"
)

// Notification templates used by the research workflow.
const (
	TemplateResearchSubmission = "research_submission" // to the department teacher
	TemplateAssignment         = "assignment"          // to the assigned committee member
	TemplateResearchFeedback   = "research_feedback"   // to the submitting student
)

// NotificationResult reports the best-effort dispatch outcome. A failed
// dispatch never fails the operation that triggered it; the caller surfaces
// Warning() out-of-band.
type NotificationResult struct {
	Delivered bool   `json:"delivered"`
	Error     string `json:"error,omitempty"`
}

// Warning returns a user-facing note for a failed dispatch, empty otherwise.
// A zero result means no dispatch was attempted and carries no warning.
func (r NotificationResult) Warning() string {
	if r.Delivered || r.Error == "" {
		return ""
	}
	return "could not notify recipient: " + r.Error
}

// Notifier dispatches a templated notification to a recipient. It never
// returns an error to the caller; failures land in the result.
type Notifier interface {
	Notify(templateType string, recipient Contact, data map[string]string) NotificationResult
}

type messageTemplate struct {
	Title       string
	Body        string
	KindForUser string // in-app notification type: info|success|warning|error
}

var messageTemplates = map[string]messageTemplate{
	TemplateResearchSubmission: {
		Title:       "New research submission {{submission_number}}",
		Body:        "{{student_name}} submitted \"{{title}}\" for review in {{department_name}} on {{submitted_at}}.",
		KindForUser: "info",
	},
	TemplateAssignment: {
		Title:       "Research submission assigned to you",
		Body:        "You have been assigned to review \"{{title}}\" ({{submission_number}}) from {{department_name}}.",
		KindForUser: "info",
	},
	TemplateResearchFeedback: {
		Title:       "Your research submission was {{decision}}",
		Body:        "Your submission \"{{title}}\" ({{submission_number}}) has been {{decision}}. Reviewer comments: {{comments}}",
		KindForUser: "success",
	},
}

func applyPlaceholders(text string, data map[string]string) string {
	result := text
	for key, value := range data {
		placeholder := "{{" + key + "}}"
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}

func buildFormalEmailHTML(subject, recipientName, message string) string {
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "recipient"
	}

	escapedSubject := template.HTMLEscapeString(subject)
	escapedGreeting := template.HTMLEscapeString(fmt.Sprintf("Dear %s,", name))
	escapedMessage := template.HTMLEscapeString(strings.TrimSpace(message))
	escapedMessage = strings.ReplaceAll(strings.ReplaceAll(escapedMessage, "\r\n", "\n"), "\r", "\n")
	escapedMessage = strings.ReplaceAll(escapedMessage, "\n", "<br />")

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">%s</p>
    <p style="margin:0 0 0 0;font-size:16px;line-height:1.7;color:#111827;word-break:break-word;">%s</p>
  </div>
</div>
</body>
</html>`, escapedSubject, escapedGreeting, escapedMessage)
}

type mailNotifier struct {
	storeInApp func(notification *models.Notification) error
	sendMail   func(to []string, subject, html string) error
}

// NewMailNotifier returns the production gateway: it stores an in-app
// notification row for portal users and sends an HTML email over SMTP.
func NewMailNotifier(db *gorm.DB) Notifier {
	return &mailNotifier{
		storeInApp: func(notification *models.Notification) error {
			return db.Create(notification).Error
		},
		sendMail: config.SendMail,
	}
}

func (n *mailNotifier) Notify(templateType string, recipient Contact, data map[string]string) NotificationResult {
	tmpl, ok := messageTemplates[templateType]
	if !ok {
		log.Printf("notification template missing: %s", templateType)
		return NotificationResult{Error: fmt.Sprintf("unknown template %q", templateType)}
	}

	title := applyPlaceholders(tmpl.Title, data)
	body := applyPlaceholders(tmpl.Body, data)

	// The recipient counts as reached once the in-app row lands, even when
	// the email leg fails afterwards.
	inApp := false
	if recipient.UserID > 0 {
		notification := models.Notification{
			UserID:   uint(recipient.UserID),
			Title:    title,
			Message:  body,
			Type:     tmpl.KindForUser,
			IsRead:   false,
			CreateAt: time.Now(),
		}
		if sid, ok := data["submission_id"]; ok {
			if id := parseUint(sid); id > 0 {
				notification.RelatedSubmissionID = &id
			}
		}
		if err := n.storeInApp(&notification); err != nil {
			log.Printf("in-app notification insert failed (user=%d template=%s): %v", recipient.UserID, templateType, err)
		} else {
			inApp = true
		}
	}

	if strings.TrimSpace(recipient.Email) == "" {
		return NotificationResult{Delivered: inApp, Error: "recipient has no email address"}
	}

	html := buildFormalEmailHTML(title, recipient.Name, body)
	if err := n.sendMail([]string{recipient.Email}, title, html); err != nil {
		log.Printf("notification email send failed (template=%s to=%s): %v", templateType, recipient.Email, err)
		return NotificationResult{Delivered: inApp, Error: err.Error()}
	}

	return NotificationResult{Delivered: true}
}

func parseUint(s string) uint {
	var id uint
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		id = id*10 + uint(c-'0')
	}
	return id
}
