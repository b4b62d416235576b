package bot

import (
	"context"
	"errors"
	"log"

	"github.com/uma-arai/sbcntr-reservation-bot/internal/messaging"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/model"
)

// HandleReaction は通知メッセージへのリアクションを処理します
// 対象外のイベントは黙って破棄します。ゲートウェイの失敗はログに記録して処理を続けます
func (s *Service) HandleReaction(ctx context.Context, ev messaging.ReactionEvent) {
	botID := s.gateway.BotUserID()
	if ev.UserID == botID {
		return
	}
	if ev.ChannelID != s.channelID() {
		return
	}

	msg, err := s.gateway.FetchMessage(ctx, ev.ChannelID, ev.MessageID)
	if err != nil || msg.AuthorID != botID {
		return
	}

	r, err := s.reservationRepo.GetByMessageID(ctx, ev.MessageID)
	if err != nil {
		log.Printf("Failed to resolve reservation for message %s: %v", ev.MessageID, err)
		return
	}
	if r == nil {
		return
	}

	member, err := s.gateway.FetchMember(ctx, ev.GuildID, ev.UserID)
	if err != nil {
		return
	}
	if !member.IsAdmin(s.cfg.Discord.AdminRoleID) {
		if err := s.gateway.RemoveReaction(ctx, ev.ChannelID, ev.MessageID, ev.Emoji, ev.UserID); err != nil {
			log.Printf("Failed to remove reaction from %s: %v", ev.UserID, err)
		}
		return
	}

	reaction := model.ParseReaction(ev.Emoji)
	switch reaction {
	case model.ReactionApprove, model.ReactionReject:
		target, _ := reaction.TargetStatus()
		s.reactTransition(ctx, r, msg, member, target, reaction.Emoji())
	case model.ReactionInfo:
		game, user := s.lookupRefs(ctx, r)
		if _, err := s.PostEphemeral(ctx, msg.ChannelID, detailEmbed(r, game, user, s.clock.Now()), EphemeralTTL); err != nil {
			log.Printf("Failed to post details of reservation %s: %v", r.ID, err)
		}
	}
}

func (s *Service) reactTransition(ctx context.Context, r *model.Reservation, msg *messaging.Message, member *messaging.Member, target model.Status, confirm string) {
	err := s.transition(ctx, r, target, transitionNote(target, member.DisplayName, viaReaction))
	if errors.Is(err, model.ErrNotPending) {
		return
	}
	if err != nil {
		log.Printf("Failed to update reservation %s to %s: %v", r.ID, target, err)
		return
	}

	if err := s.editStatus(ctx, msg, target); err != nil {
		log.Printf("Failed to update message of reservation %s: %v", r.ID, err)
	}
	s.addReactions(ctx, msg, confirm)
}
