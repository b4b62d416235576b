package bot

import (
	"context"
	"fmt"
	"log"

	"github.com/uma-arai/sbcntr-reservation-bot/internal/model"
)

// 遷移の実行経路
const (
	viaReaction = "réaction"
	viaCommand  = "commande"
)

// transitionNote は遷移時に保存する管理者メモです
func transitionNote(status model.Status, actor, via string) string {
	if status == model.StatusApproved {
		return fmt.Sprintf("Approuvé par %s via %s", actor, via)
	}
	return fmt.Sprintf("Rejeté par %s via %s", actor, via)
}

// transition は pending の予約を status に遷移させます
// 遷移しなかった場合は model.ErrNotPending を返します
func (s *Service) transition(ctx context.Context, r *model.Reservation, status model.Status, note string) error {
	if !r.IsPending() {
		return fmt.Errorf("reservation %s is %s: %w", r.ID, r.Status, model.ErrNotPending)
	}

	changed, err := s.reservationRepo.UpdateStatus(ctx, r.ID, status, note)
	if err != nil {
		return err
	}
	if !changed {
		log.Printf("Reservation %s was already processed, skipping %s", r.ID, status)
		return fmt.Errorf("reservation %s: %w", r.ID, model.ErrNotPending)
	}

	log.Printf("Reservation %s %s (%s)", r.ID, status, note)
	return nil
}
