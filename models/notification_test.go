package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNotificationTimestampFieldName(t *testing.T) {
	payload, err := json.Marshal(Notification{CreateAt: time.Now()})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// Timestamps serialize as create_at across all models.
	if !strings.Contains(string(payload), `"create_at"`) {
		t.Fatalf("create_at missing from payload: %s", payload)
	}
	if strings.Contains(string(payload), `"created_at"`) {
		t.Fatalf("payload uses created_at: %s", payload)
	}
}
