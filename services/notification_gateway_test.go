package services

import (
	"errors"
	"strings"
	"testing"

	"faculty-portal-api/models"
)

func TestWarningOnlyForFailedDispatch(t *testing.T) {
	if got := (NotificationResult{}).Warning(); got != "" {
		t.Fatalf("zero result must carry no warning, got %q", got)
	}
	if got := (NotificationResult{Delivered: true}).Warning(); got != "" {
		t.Fatalf("delivered result must carry no warning, got %q", got)
	}
	if got := (NotificationResult{Error: "smtp unreachable"}).Warning(); got == "" {
		t.Fatalf("failed dispatch must carry a warning")
	}
}

func TestApplyPlaceholders(t *testing.T) {
	got := applyPlaceholders("{{a}} and {{b}}, {{a}} again", map[string]string{
		"a": "one",
		"b": "two",
	})
	want := "one and two, one again"
	if got != want {
		t.Fatalf("applyPlaceholders = %q, want %q", got, want)
	}

	// Unknown placeholders stay verbatim rather than breaking the message.
	got = applyPlaceholders("hello {{missing}}", map[string]string{"a": "x"})
	if got != "hello {{missing}}" {
		t.Fatalf("applyPlaceholders = %q, want placeholder untouched", got)
	}
}

func TestNotifyRendersTemplateAndSendsMail(t *testing.T) {
	var sentTo []string
	var sentSubject, sentHTML string

	notifier := &mailNotifier{
		sendMail: func(to []string, subject, html string) error {
			sentTo = to
			sentSubject = subject
			sentHTML = html
			return nil
		},
	}

	result := notifier.Notify(TemplateResearchFeedback,
		Contact{Name: "Sam Student", Email: "s1@faculty.local"},
		map[string]string{
			"decision":          "accepted",
			"title":             "Adaptive Irrigation",
			"submission_number": "RS-2026-ABCD1234",
			"comments":          "Well written",
		})

	if !result.Delivered {
		t.Fatalf("Notify result not delivered: %+v", result)
	}
	if len(sentTo) != 1 || sentTo[0] != "s1@faculty.local" {
		t.Fatalf("mail sent to %v", sentTo)
	}
	if !strings.Contains(sentSubject, "accepted") {
		t.Fatalf("subject missing decision: %q", sentSubject)
	}
	if !strings.Contains(sentHTML, "Dear Sam Student") {
		t.Fatalf("greeting missing from email body")
	}
	if !strings.Contains(sentHTML, "Well written") {
		t.Fatalf("comments missing from email body")
	}
}

func TestNotifyEmailFailureIsCaptured(t *testing.T) {
	notifier := &mailNotifier{
		sendMail: func(to []string, subject, html string) error {
			return errors.New("smtp unreachable")
		},
	}

	result := notifier.Notify(TemplateAssignment,
		Contact{Name: "Cara One", Email: "c1@faculty.local"},
		map[string]string{"title": "X", "submission_number": "RS-2026-1", "department_name": "Science"})

	if result.Delivered {
		t.Fatalf("failure should not report delivered")
	}
	if result.Warning() == "" {
		t.Fatalf("expected a warning for the caller")
	}
}

func TestNotifyUnknownTemplate(t *testing.T) {
	notifier := &mailNotifier{
		sendMail: func([]string, string, string) error { return nil },
	}

	result := notifier.Notify("no_such_template", Contact{Email: "x@y"}, nil)
	if result.Delivered {
		t.Fatalf("unknown template must not report delivered")
	}
}

func TestNotifyRecipientWithoutEmail(t *testing.T) {
	notifier := &mailNotifier{
		sendMail: func([]string, string, string) error {
			t.Fatal("sendMail must not be called without an address")
			return nil
		},
	}

	result := notifier.Notify(TemplateAssignment, Contact{Name: "Nobody"}, map[string]string{})
	if result.Delivered {
		t.Fatalf("missing address must not report delivered")
	}
}

func TestNotifyInAppOnlyRecipient(t *testing.T) {
	var stored *models.Notification
	notifier := &mailNotifier{
		storeInApp: func(n *models.Notification) error {
			stored = n
			return nil
		},
		sendMail: func([]string, string, string) error {
			t.Fatal("sendMail must not be called without an address")
			return nil
		},
	}

	result := notifier.Notify(TemplateAssignment,
		Contact{UserID: 42, Name: "No Mail"},
		map[string]string{"title": "X", "submission_number": "RS-2026-1", "department_name": "Science", "submission_id": "7"})

	if stored == nil || stored.UserID != 42 {
		t.Fatalf("in-app notification not stored: %+v", stored)
	}
	if stored.RelatedSubmissionID == nil || *stored.RelatedSubmissionID != 7 {
		t.Fatalf("submission reference not recorded: %v", stored.RelatedSubmissionID)
	}
	if !result.Delivered {
		t.Fatalf("in-app delivery must count as delivered")
	}
	if result.Warning() != "" {
		t.Fatalf("in-app delivery must not warn, got %q", result.Warning())
	}
}
