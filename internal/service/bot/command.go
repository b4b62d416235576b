package bot

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/utils"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/messaging"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/model"
)

var (
	errOutsideGuild = fmt.Errorf("%w: outside of a guild", model.ErrUnauthorized)
	errNotAdmin     = fmt.Errorf("%w: missing admin role", model.ErrUnauthorized)
	errWrongChannel = fmt.Errorf("%w: wrong channel", model.ErrUnauthorized)
)

var denialMessages = map[error]string{
	errOutsideGuild: "Cette commande ne peut être utilisée que sur un serveur",
	errNotAdmin:     "Vous n'avez pas les permissions nécessaires pour utiliser cette commande",
	errWrongChannel: "Cette commande ne peut être utilisée que dans le salon des réservations",
}

// checkPermission は全コマンドで管理者であることを要求します
// reservations とテキストコマンドは予約チャンネルでのみ受け付けます
func (s *Service) checkPermission(req messaging.CommandRequest) error {
	if req.GuildID == "" {
		return errOutsideGuild
	}
	if !req.Invoker.IsAdmin(s.cfg.Discord.AdminRoleID) {
		return errNotAdmin
	}
	if (req.Name == messaging.CommandReservations || req.FromText) && req.ChannelID != s.channelID() {
		return errWrongChannel
	}
	return nil
}

// Authorize は権限がない場合に実行者のみに表示するエラー応答を返します
func (s *Service) Authorize(_ context.Context, req messaging.CommandRequest) *messaging.CommandResponse {
	err := s.checkPermission(req)
	if err == nil {
		return nil
	}
	return &messaging.CommandResponse{
		Embed:     errorEmbed("Permission refusée", denialMessages[err], s.clock.Now()),
		Ephemeral: true,
	}
}

// HandleCommand は権限確認済みのコマンドを実行します
func (s *Service) HandleCommand(ctx context.Context, req messaging.CommandRequest) messaging.CommandResponse {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "CommandSurface."+req.Name)

	resp, err := s.dispatch(ctx, req)
	closeSeg(err)
	if err != nil {
		log.Printf("Command %s %s failed: %v", req.Name, req.Action, err)
		return messaging.CommandResponse{
			Embed: errorEmbed("Erreur", fmt.Sprintf("Une erreur s'est produite: %v", err), s.clock.Now()),
		}
	}
	return resp
}

func (s *Service) dispatch(ctx context.Context, req messaging.CommandRequest) (messaging.CommandResponse, error) {
	switch req.Name {
	case messaging.CommandReservations:
		return s.reservationsCommand(ctx, req)
	case messaging.CommandStats:
		return s.statsCommand(ctx)
	case messaging.CommandStatus:
		return s.statusCommand(ctx), nil
	case messaging.CommandPing:
		return messaging.CommandResponse{Embed: pingEmbed(s.gateway.Latency())}, nil
	case messaging.CommandSync:
		n, err := s.gateway.SyncCommands(ctx)
		if err != nil {
			return messaging.CommandResponse{}, fmt.Errorf("erreur lors de la synchronisation: %w", err)
		}
		return messaging.CommandResponse{
			Embed: successEmbed("Synchronisation réussie", fmt.Sprintf("%d commandes slash ont été synchronisées avec Discord", n), s.clock.Now()),
		}, nil
	case messaging.CommandTestNotification:
		if _, err := s.SendTestNotification(ctx, req.ChannelID); err != nil {
			return messaging.CommandResponse{}, err
		}
		return messaging.CommandResponse{Content: "✅ Notification de test envoyée avec réactions !"}, nil
	case messaging.CommandNotifyAll:
		n, err := s.ScanNewReservations(ctx)
		if err != nil {
			return messaging.CommandResponse{}, err
		}
		if n == 0 {
			return messaging.CommandResponse{Content: "Aucune réservation en attente à notifier."}, nil
		}
		return messaging.CommandResponse{Content: fmt.Sprintf("✅ %d notification(s) envoyée(s) pour les réservations en attente.", n)}, nil
	case messaging.CommandHelp:
		return messaging.CommandResponse{Embed: helpEmbed(s.cfg.Discord.Prefix)}, nil
	}
	return messaging.CommandResponse{
		Embed:     warningEmbed("Commande inconnue", fmt.Sprintf("La commande %q n'existe pas", req.Name), s.clock.Now()),
		Ephemeral: true,
	}, nil
}

func (s *Service) reservationsCommand(ctx context.Context, req messaging.CommandRequest) (messaging.CommandResponse, error) {
	if req.Action == messaging.ActionList {
		return s.listCommand(ctx)
	}

	switch req.Action {
	case messaging.ActionApprove, messaging.ActionReject, messaging.ActionInfo:
	default:
		return messaging.CommandResponse{
			Embed: warningEmbed("Action inconnue", fmt.Sprintf("L'action %q n'existe pas", req.Action), s.clock.Now()),
		}, nil
	}
	if req.ReservationID == "" {
		return messaging.CommandResponse{Content: "❌ ID de réservation requis pour cette action"}, nil
	}

	r, err := s.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		return messaging.CommandResponse{}, err
	}
	if r == nil {
		return messaging.CommandResponse{
			Embed: errorEmbed("Réservation introuvable", "Aucune réservation trouvée avec l'ID: "+req.ReservationID, s.clock.Now()),
		}, nil
	}

	if req.Action == messaging.ActionInfo {
		game, user := s.lookupRefs(ctx, r)
		embed := detailEmbed(r, game, user, s.clock.Now())
		return messaging.CommandResponse{Embed: &embed}, nil
	}

	target := model.StatusApproved
	if req.Action == messaging.ActionReject {
		target = model.StatusRejected
	}
	return s.transitionCommand(ctx, r, target, req)
}

func (s *Service) transitionCommand(ctx context.Context, r *model.Reservation, target model.Status, req messaging.CommandRequest) (messaging.CommandResponse, error) {
	note := transitionNote(target, req.Invoker.DisplayName, viaCommand)
	if target == model.StatusRejected && req.Reason != "" {
		note = req.Reason
	}

	err := s.transition(ctx, r, target, note)
	if errors.Is(err, model.ErrNotPending) {
		current := r.Status
		if r.IsPending() {
			// 他の経路で先に処理された
			if latest, err := s.reservationRepo.GetByID(ctx, r.ID); err == nil && latest != nil {
				current = latest.Status
			}
		}
		return messaging.CommandResponse{
			Embed: warningEmbed("Action impossible", fmt.Sprintf("Cette réservation est déjà %s", current), s.clock.Now()),
		}, nil
	}
	if err != nil {
		return messaging.CommandResponse{}, err
	}

	if err := s.UpdateReservationMessage(ctx, r.ID, target); err != nil && !errors.Is(err, model.ErrNotBound) {
		log.Printf("Failed to refresh message of reservation %s: %v", r.ID, err)
	}
	// 予約者への通知はコマンド経由の遷移のみ
	if err := s.owner.NotifyStatusChange(ctx, r, target, note); err != nil {
		log.Printf("Failed to notify owner of reservation %s: %v", r.ID, err)
	}

	if target == model.StatusApproved {
		return messaging.CommandResponse{
			Embed: successEmbed("Réservation approuvée", fmt.Sprintf("La réservation %s a été approuvée avec succès", r.ID), s.clock.Now()),
		}, nil
	}
	return messaging.CommandResponse{
		Embed: successEmbed("Réservation rejetée", fmt.Sprintf("La réservation %s a été rejetée", r.ID), s.clock.Now()),
	}, nil
}

func (s *Service) listCommand(ctx context.Context) (messaging.CommandResponse, error) {
	pending := model.StatusPending
	reservations, err := s.reservationRepo.GetReservations(ctx, &pending)
	if err != nil {
		return messaging.CommandResponse{}, err
	}
	if len(reservations) == 0 {
		return messaging.CommandResponse{
			Embed: warningEmbed("Aucune réservation", "Aucune réservation en attente", s.clock.Now()),
		}, nil
	}

	shown := reservations
	if len(shown) > listLimit {
		shown = shown[:listLimit]
	}
	entries := make([]listEntry, len(shown))
	for i := range shown {
		game, user := s.lookupRefs(ctx, &shown[i])
		entries[i] = listEntry{Reservation: shown[i], Game: game, User: user}
	}

	embed := listEmbed(entries, len(reservations), s.clock.Now())
	return messaging.CommandResponse{Embed: &embed}, nil
}

func (s *Service) statsCommand(ctx context.Context) (messaging.CommandResponse, error) {
	reservations, err := s.reservationRepo.GetReservations(ctx, nil)
	if err != nil {
		return messaging.CommandResponse{}, err
	}

	embed := statsEmbed(model.CountByStatus(reservations), s.clock.Now())
	return messaging.CommandResponse{Embed: &embed}, nil
}

func (s *Service) statusCommand(ctx context.Context) messaging.CommandResponse {
	storeOK := true
	if err := s.reservationRepo.Ping(ctx); err != nil {
		log.Printf("Store ping failed: %v", err)
		storeOK = false
	}
	return messaging.CommandResponse{
		Embed: botStatusEmbed(s.gateway.Ready(), storeOK, s.gateway.Latency(), s.clock.Now()),
	}
}
