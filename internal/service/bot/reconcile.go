package bot

import (
	"context"
	"log"
	"time"

	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/scheduler"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/utils"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/model"
)

// 定期処理の開始までの待ち時間
const (
	NewReservationsInitialDelay = 30 * time.Second
	RemindersInitialDelay       = 5 * time.Minute
	DailySummaryInitialDelay    = time.Minute
)

// Tasks はスケジューラに登録する定期処理です
func (s *Service) Tasks() []scheduler.Task {
	sc := s.cfg.Schedule
	return []scheduler.Task{
		{
			Name:         "new-reservations",
			InitialDelay: NewReservationsInitialDelay,
			Interval:     sc.NewReservationInterval,
			Run: func(ctx context.Context) error {
				_, err := s.ScanNewReservations(ctx)
				return err
			},
		},
		{
			Name:         "reminders",
			InitialDelay: RemindersInitialDelay,
			Interval:     sc.ReminderInterval,
			Run: func(ctx context.Context) error {
				_, err := s.ScanReminders(ctx)
				return err
			},
		},
		{
			Name:         "daily-summary",
			InitialDelay: DailySummaryInitialDelay,
			Interval:     sc.DailySummaryInterval,
			Run:          s.SendDailySummary,
		},
	}
}

// ScanNewReservations は未通知の承認待ち予約に通知を投稿し、投稿件数を返します
// 個々の送信失敗はログに記録して次の予約へ進みます
//
// 同時に2回実行されると同じ予約に2通投稿される可能性があります。
// 紐付けは主キー制約により1件のみ保存され、後発のメッセージは紐付かないまま残ります
func (s *Service) ScanNewReservations(ctx context.Context) (int, error) {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "ReconciliationLoop.ScanNewReservations")

	pending := model.StatusPending
	reservations, err := s.reservationRepo.GetReservations(ctx, &pending)
	if err != nil {
		closeSeg(err)
		return 0, err
	}

	var targets []model.Reservation
	for _, r := range reservations {
		if r.IsPending() && !r.IsBound() {
			targets = append(targets, r)
		}
	}
	utils.AddMetadata(ctx, "unbound_count", len(targets))

	sent := 0
	for i, r := range targets {
		if i > 0 {
			if err := utils.Sleep(ctx, s.clock, s.cfg.Schedule.SendDelay); err != nil {
				closeSeg(err)
				return sent, err
			}
		}

		if _, err := s.SendReservationNotification(ctx, r.ID); err != nil {
			if isAlreadyBound(err) {
				log.Printf("Reservation %s was notified concurrently; an unbound duplicate message remains: %v", r.ID, err)
			} else {
				log.Printf("Failed to send notification for reservation %s: %v", r.ID, err)
			}
			continue
		}
		sent++
	}

	closeSeg(nil)
	if sent > 0 {
		log.Printf("Sent %d new reservation notifications", sent)
	}
	return sent, nil
}

// ScanReminders は開始日時から ReminderAge 以上経過した承認待ち予約に催促を投稿します
func (s *Service) ScanReminders(ctx context.Context) (int, error) {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "ReconciliationLoop.ScanReminders")

	pending := model.StatusPending
	reservations, err := s.reservationRepo.GetReservations(ctx, &pending)
	if err != nil {
		closeSeg(err)
		return 0, err
	}

	now := s.clock.Now()
	var targets []model.Reservation
	for _, r := range reservations {
		if r.IsPending() && now.Sub(r.StartDate) > s.cfg.Schedule.ReminderAge {
			targets = append(targets, r)
		}
	}

	sent := 0
	for i, r := range targets {
		if i > 0 {
			if err := utils.Sleep(ctx, s.clock, s.cfg.Schedule.SendDelay); err != nil {
				closeSeg(err)
				return sent, err
			}
		}

		ok, err := s.SendReminderNotification(ctx, r.ID)
		if err != nil {
			log.Printf("Failed to send reminder for reservation %s: %v", r.ID, err)
			continue
		}
		if ok {
			sent++
		}
	}

	closeSeg(nil)
	if sent > 0 {
		log.Printf("Sent %d reminders", sent)
	}
	return sent, nil
}
