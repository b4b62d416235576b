package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/utils"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/messaging"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/model"
)

// EphemeralTTL は一時表示メッセージを削除するまでの時間です
const EphemeralTTL = 30 * time.Second

// SendReservationNotification は予約の通知を投稿し、リアクションを付与して紐付けを保存します
// 既存の紐付けは確認しないため、呼び出し側で未通知であることを確認してください
func (s *Service) SendReservationNotification(ctx context.Context, id string) (*messaging.Message, error) {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "NotificationService.SendReservationNotification")

	r, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		closeSeg(err)
		return nil, err
	}
	if r == nil {
		err := fmt.Errorf("reservation %s: %w", id, model.ErrNotFound)
		closeSeg(err)
		return nil, err
	}

	game, user := s.lookupRefs(ctx, r)
	msg, err := s.gateway.SendEmbed(ctx, s.channelID(), reservationEmbed(r, game, user, s.clock.Now()))
	if err != nil {
		closeSeg(err)
		return nil, err
	}

	s.addReactions(ctx, msg, model.NotificationReactions...)

	if err := s.reservationRepo.BindMessage(ctx, r.ID, msg.ChannelID, msg.ID); err != nil {
		closeSeg(err)
		return msg, fmt.Errorf("failed to bind message %s to reservation %s: %w", msg.ID, r.ID, err)
	}

	closeSeg(nil)
	log.Printf("Notification sent for reservation %s (message %s)", r.ID, msg.ID)
	return msg, nil
}

func (s *Service) addReactions(ctx context.Context, msg *messaging.Message, emojis ...string) {
	for _, emoji := range emojis {
		if err := s.gateway.AddReaction(ctx, msg.ChannelID, msg.ID, emoji); err != nil {
			log.Printf("Failed to add reaction %s to message %s: %v", emoji, msg.ID, err)
		}
	}
}

// UpdateReservationMessage は紐付いた通知メッセージのステータス表示を書き換えます
// メッセージを作り直すことはありません
func (s *Service) UpdateReservationMessage(ctx context.Context, id string, status model.Status) error {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "NotificationService.UpdateReservationMessage")

	err := s.updateReservationMessage(ctx, id, status)
	closeSeg(err)
	return err
}

func (s *Service) updateReservationMessage(ctx context.Context, id string, status model.Status) error {
	r, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("reservation %s: %w", id, model.ErrNotFound)
	}
	if !r.IsBound() {
		return fmt.Errorf("reservation %s: %w", id, model.ErrNotBound)
	}

	channelID := r.ChannelID
	if channelID == "" {
		channelID = s.channelID()
	}
	msg, err := s.gateway.FetchMessage(ctx, channelID, r.MessageID)
	if err != nil {
		return fmt.Errorf("message %s: %w: %v", r.MessageID, model.ErrMessageUnavailable, err)
	}
	return s.editStatus(ctx, msg, status)
}

// editStatus は取得済みのメッセージの先頭の埋め込みを status に合わせて編集します
func (s *Service) editStatus(ctx context.Context, msg *messaging.Message, status model.Status) error {
	if len(msg.Embeds) == 0 {
		return fmt.Errorf("message %s has no embed: %w", msg.ID, model.ErrMessageUnavailable)
	}

	embed := msg.Embeds[0]
	applyStatus(&embed, status)
	return s.gateway.EditEmbed(ctx, msg.ChannelID, msg.ID, embed)
}

// SendReminderNotification は承認待ちが続く予約の催促を投稿します
// 投稿時点で承認待ちでなくなっていた場合は false を返します
func (s *Service) SendReminderNotification(ctx context.Context, id string) (bool, error) {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "NotificationService.SendReminderNotification")

	r, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		closeSeg(err)
		return false, err
	}
	if r == nil || !r.IsPending() {
		closeSeg(nil)
		return false, nil
	}

	if _, err := s.gateway.SendEmbed(ctx, s.channelID(), reminderEmbed(r, s.clock.Now())); err != nil {
		closeSeg(err)
		return false, err
	}

	closeSeg(nil)
	log.Printf("Reminder sent for reservation %s", r.ID)
	return true, nil
}

// SendDailySummary は本日(ローカルタイムゾーン)開始の予約をステータス別に集計して投稿します
func (s *Service) SendDailySummary(ctx context.Context) error {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "NotificationService.SendDailySummary")

	reservations, err := s.reservationRepo.GetReservations(ctx, nil)
	if err != nil {
		closeSeg(err)
		return err
	}

	now := s.clock.Now()
	today := now.Local()
	var todays []model.Reservation
	for _, r := range reservations {
		if sameDay(r.StartDate.Local(), today) {
			todays = append(todays, r)
		}
	}

	stats := model.CountByStatus(todays)
	utils.AddMetadata(ctx, "today_count", stats.Total)

	if _, err := s.gateway.SendEmbed(ctx, s.channelID(), summaryEmbed(today, stats, now)); err != nil {
		closeSeg(err)
		return err
	}

	closeSeg(nil)
	log.Printf("Daily summary sent for %s (%d reservations)", today.Format("2006-01-02"), stats.Total)
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// PostEphemeral は埋め込みを投稿し、ttl 経過後に削除します
// 削除の失敗はログに記録するのみです
func (s *Service) PostEphemeral(ctx context.Context, channelID string, embed messaging.Embed, ttl time.Duration) (*messaging.Message, error) {
	msg, err := s.gateway.SendEmbed(ctx, channelID, embed)
	if err != nil {
		return nil, err
	}

	after := s.clock.After(ttl)
	go func() {
		<-after
		ctx, closeSeg := utils.BeginSegment(context.Background(), "NotificationService.DeleteEphemeral")
		err := s.gateway.DeleteMessage(ctx, msg.ChannelID, msg.ID)
		closeSeg(err)
		if err != nil {
			log.Printf("Failed to delete ephemeral message %s: %v", msg.ID, err)
		}
	}()
	return msg, nil
}

// SendTestNotification は架空の予約で通知を投稿します。紐付けは保存しません
func (s *Service) SendTestNotification(ctx context.Context, channelID string) (*messaging.Message, error) {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "NotificationService.SendTestNotification")

	msg, err := s.gateway.SendEmbed(ctx, channelID, testEmbed(s.clock.Now()))
	if err != nil {
		closeSeg(err)
		return nil, err
	}
	s.addReactions(ctx, msg, model.NotificationReactions...)

	closeSeg(nil)
	return msg, nil
}

// isAlreadyBound は紐付けの重複を判定します
func isAlreadyBound(err error) bool {
	return errors.Is(err, model.ErrAlreadyBound)
}
