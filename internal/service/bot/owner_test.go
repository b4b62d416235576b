package bot

import (
	"context"
	"testing"
	"time"

	"github.com/uma-arai/sbcntr-reservation-bot/internal/model"
)

type published struct {
	key   string
	value any
}

// MockPublisher は発行内容を記録します
type MockPublisher struct {
	published []published
	err       error
}

func (m *MockPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	m.published = append(m.published, published{key: key, value: v})
	return m.err
}

func TestEventOwnerNotifier(t *testing.T) {
	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
	r := pendingReservation("res-1", now)

	tests := []struct {
		name    string
		status  model.Status
		wantKey string
		wantErr bool
	}{
		{"承認", model.StatusApproved, model.RoutingKeyReservationApproved, false},
		{"却下", model.StatusRejected, model.RoutingKeyReservationRejected, false},
		{"承認待ちには発行しない", model.StatusPending, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &MockPublisher{}
			n := NewEventOwnerNotifier(pub, func() time.Time { return now })

			err := n.NotifyStatusChange(context.Background(), &r, tt.status, "note")
			if (err != nil) != tt.wantErr {
				t.Fatalf("NotifyStatusChange() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if len(pub.published) != 0 {
					t.Errorf("published = %d, want 0", len(pub.published))
				}
				return
			}

			if len(pub.published) != 1 || pub.published[0].key != tt.wantKey {
				t.Fatalf("published = %+v", pub.published)
			}
			event, ok := pub.published[0].value.(model.ReservationStatusEvent)
			if !ok {
				t.Fatalf("value type = %T", pub.published[0].value)
			}
			if event.ReservationID != "res-1" || event.Status != tt.status || event.Reason != "note" || !event.CreatedAt.Equal(now) {
				t.Errorf("event = %+v", event)
			}
		})
	}
}

func TestLogOwnerNotifier(t *testing.T) {
	r := pendingReservation("res-1", time.Now())
	if err := (LogOwnerNotifier{}).NotifyStatusChange(context.Background(), &r, model.StatusApproved, ""); err != nil {
		t.Errorf("NotifyStatusChange() error = %v", err)
	}
}
