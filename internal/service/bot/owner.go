package bot

import (
	"context"
	"log"
	"time"

	"github.com/uma-arai/sbcntr-reservation-bot/internal/model"
)

// OwnerNotifier は予約者へのステータス変更の通知口です
type OwnerNotifier interface {
	NotifyStatusChange(ctx context.Context, r *model.Reservation, status model.Status, reason string) error
}

// LogOwnerNotifier はログ出力のみを行います
type LogOwnerNotifier struct{}

func (LogOwnerNotifier) NotifyStatusChange(_ context.Context, r *model.Reservation, status model.Status, reason string) error {
	log.Printf("Reservation %s updated to %s for user %s (reason: %q)", r.ID, status, r.UserID, reason)
	return nil
}

// EventPublisher は mq.Publisher が満たすインターフェースです
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// EventOwnerNotifier はステータス変更イベントをメッセージブローカーへ発行します
// 実際の予約者への配信は購読側のサービスが行います
type EventOwnerNotifier struct {
	publisher EventPublisher
	now       func() time.Time
}

// NewEventOwnerNotifier は新しいEventOwnerNotifierを作成します
func NewEventOwnerNotifier(publisher EventPublisher, now func() time.Time) *EventOwnerNotifier {
	if now == nil {
		now = time.Now
	}
	return &EventOwnerNotifier{publisher: publisher, now: now}
}

func (n *EventOwnerNotifier) NotifyStatusChange(ctx context.Context, r *model.Reservation, status model.Status, reason string) error {
	event := model.NewReservationStatusEvent(r, status, reason, n.now())
	key, err := event.RoutingKey()
	if err != nil {
		return err
	}
	return n.publisher.PublishJSON(ctx, key, event)
}
