package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/uma-arai/sbcntr-reservation-bot/internal/messaging"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/model"
)

// FieldStatus は通知メッセージのステータスフィールド名です
const FieldStatus = "Statut"

const listLimit = 10

// timestampTag はクライアントのタイムゾーンで表示される日時表記です
func timestampTag(t time.Time) string {
	return fmt.Sprintf("<t:%d:F>", t.Unix())
}

func statusText(status model.Status) string {
	switch status {
	case model.StatusPending:
		return "⏳ EN ATTENTE"
	case model.StatusApproved:
		return "✅ APPROUVÉ"
	case model.StatusRejected:
		return "❌ REJETÉ"
	}
	return "❓ " + strings.ToUpper(string(status))
}

func statusColor(status model.Status) int {
	switch status {
	case model.StatusApproved:
		return messaging.ColorApproved
	case model.StatusRejected:
		return messaging.ColorRejected
	}
	return messaging.ColorPending
}

func gameName(game *model.Game) string {
	if game == nil {
		return "Jeu inconnu"
	}
	return game.Name
}

func userName(user *model.User) string {
	if user == nil {
		return "Utilisateur inconnu"
	}
	return user.Username
}

func footerID(id string) string {
	return "ID: " + id
}

// reservationEmbed は新規予約の通知です。ステータスフィールドを先頭に置きます
func reservationEmbed(r *model.Reservation, game *model.Game, user *model.User, now time.Time) messaging.Embed {
	e := messaging.Embed{
		Title:       "🎮 Nouvelle réservation - " + gameName(game),
		Description: "Une nouvelle réservation a été créée",
		Color:       statusColor(model.StatusPending),
		Footer:      footerID(r.ID),
		Timestamp:   now,
	}
	e.AddField(FieldStatus, statusText(model.StatusPending), true)
	e.AddField("📅 Début de réservation", timestampTag(r.StartDate), true)
	e.AddField("📅 Fin de réservation", timestampTag(r.EndDate), true)
	e.AddField("👤 Utilisateur", userName(user), true)
	if r.Notes != "" {
		e.AddField("📝 Notes", r.Notes, false)
	}
	if game != nil {
		e.AddField("🎯 Détails du jeu", fmt.Sprintf("**Joueurs:** %s\n**Durée:** %s\n**Âge:** %s",
			orNA(game.Players), orNA(game.Duration), orNA(game.Age)), false)
	}
	return e
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// applyStatus はステータスフィールドと色を書き換えます
func applyStatus(e *messaging.Embed, status model.Status) {
	e.Color = statusColor(status)
	e.SetField(FieldStatus, statusText(status), true)
}

func detailEmbed(r *model.Reservation, game *model.Game, user *model.User, now time.Time) messaging.Embed {
	e := messaging.Embed{
		Title:     "📋 Détails de la réservation",
		Color:     messaging.ColorInfo,
		Footer:    footerID(r.ID),
		Timestamp: now,
	}
	e.AddField(FieldStatus, statusText(r.Status), true)
	e.AddField("Début", timestampTag(r.StartDate), true)
	e.AddField("Fin", timestampTag(r.EndDate), true)
	if user != nil {
		e.AddField("Utilisateur", user.Username, true)
	} else {
		e.AddField("Utilisateur", "Inconnu", true)
	}
	if game != nil {
		e.AddField("Jeu", fmt.Sprintf("**%s**\nJoueurs: %s\nDurée: %s", game.Name, orNA(game.Players), orNA(game.Duration)), false)
	}
	if r.Notes != "" {
		e.AddField("Notes", r.Notes, false)
	}
	if r.AdminNotes != "" {
		e.AddField("Notes admin", r.AdminNotes, false)
	}
	return e
}

// listEntry は一覧表示用に参照情報を結合した予約です
type listEntry struct {
	Reservation model.Reservation
	Game        *model.Game
	User        *model.User
}

// listEmbed は先頭 listLimit 件を表示します。total が上限を超える場合はフッターに総数を示します
func listEmbed(entries []listEntry, total int, now time.Time) messaging.Embed {
	e := messaging.Embed{
		Title:     "Réservations en attente",
		Color:     messaging.ColorInfo,
		Timestamp: now,
	}
	for _, entry := range entries {
		r := entry.Reservation
		e.AddField(
			fmt.Sprintf("🎮 %s - %s", gameName(entry.Game), userName(entry.User)),
			fmt.Sprintf("📅 %s\n⏰ %s\nID: `%s`", timestampTag(r.StartDate), timestampTag(r.EndDate), r.ID),
			false,
		)
	}
	if total > listLimit {
		e.Footer = fmt.Sprintf("Affichage des %d premières réservations sur %d", listLimit, total)
	}
	return e
}

func reminderEmbed(r *model.Reservation, now time.Time) messaging.Embed {
	e := messaging.Embed{
		Title:       "⏰ Rappel - Réservation en attente",
		Description: fmt.Sprintf("La réservation %s est en attente depuis plus de 24h", r.ID),
		Color:       messaging.ColorWarning,
		Footer:      footerID(r.ID),
		Timestamp:   now,
	}
	e.AddField("Début de réservation", timestampTag(r.StartDate), true)
	e.AddField("Fin de réservation", timestampTag(r.EndDate), true)
	if r.Notes != "" {
		e.AddField("Notes", r.Notes, false)
	}
	return e
}

func addStatsFields(e *messaging.Embed, stats model.Stats) {
	e.AddField("📈 Total", fmt.Sprintf("**%d** réservations", stats.Total), true)
	e.AddField("⏳ En attente", fmt.Sprintf("**%d** réservations", stats.Pending), true)
	e.AddField("✅ Approuvées", fmt.Sprintf("**%d** réservations", stats.Approved), true)
	e.AddField("❌ Rejetées", fmt.Sprintf("**%d** réservations", stats.Rejected), true)
	if stats.Total > 0 {
		e.AddField("📊 Taux d'approbation", fmt.Sprintf("**%.1f%%**", stats.ApprovalRate()), true)
	}
}

func summaryEmbed(day time.Time, stats model.Stats, now time.Time) messaging.Embed {
	e := messaging.Embed{
		Title:       "📊 Résumé quotidien",
		Description: "Réservations du " + day.Format("02/01/2006"),
		Color:       messaging.ColorInfo,
		Timestamp:   now,
	}
	addStatsFields(&e, stats)
	return e
}

func statsEmbed(stats model.Stats, now time.Time) messaging.Embed {
	e := messaging.Embed{
		Title:     "📊 Statistiques des réservations",
		Color:     messaging.ColorInfo,
		Timestamp: now,
	}
	addStatsFields(&e, stats)
	return e
}

func successEmbed(title, description string, now time.Time) *messaging.Embed {
	return &messaging.Embed{Title: "✅ " + title, Description: description, Color: messaging.ColorSuccess, Timestamp: now}
}

func errorEmbed(title, description string, now time.Time) *messaging.Embed {
	return &messaging.Embed{Title: "❌ " + title, Description: description, Color: messaging.ColorError, Timestamp: now}
}

func warningEmbed(title, description string, now time.Time) *messaging.Embed {
	return &messaging.Embed{Title: "⚠️ " + title, Description: description, Color: messaging.ColorWarning, Timestamp: now}
}

func testEmbed(now time.Time) messaging.Embed {
	e := messaging.Embed{
		Title:       "🎮 Test - Nouvelle réservation",
		Description: "Ceci est une notification de test",
		Color:       messaging.ColorPending,
		Footer:      footerID("test_123"),
		Timestamp:   now,
	}
	e.AddField(FieldStatus, statusText(model.StatusPending), true)
	e.AddField("📅 Date de réservation", timestampTag(now), true)
	e.AddField("👤 Utilisateur", "Utilisateur de test", true)
	e.AddField("🎯 Jeu", "Jeu de test", false)
	return e
}

func helpEmbed(prefix string) *messaging.Embed {
	e := &messaging.Embed{
		Title:       "🤖 Aide du bot",
		Description: "Commandes disponibles:",
		Color:       messaging.ColorInfo,
	}
	e.AddField("Commandes slash", strings.Join([]string{
		"`/reservations` - Gérer les réservations (list, approve, reject, info)",
		"`/stats` - Statistiques",
		"`/status` - Statut du bot",
		"`/ping` - Latence",
		"`/notify_all` - Notifier les réservations en attente",
		"`/test_notification` - Notification de test",
		"`/sync` - Synchroniser les commandes",
	}, "\n"), false)
	e.AddField("Réactions", fmt.Sprintf("%s - Approuver\n%s - Rejeter\n%s - Voir les détails",
		model.EmojiApprove, model.EmojiReject, model.EmojiInfo), false)
	e.AddField("Commandes textuelles", fmt.Sprintf("`%[1]slist` - Liste des réservations\n`%[1]sstats` - Statistiques\n`%[1]shelp` - Cette aide", prefix), false)
	return e
}

func connectionText(ok bool) string {
	if ok {
		return "✅ Connecté"
	}
	return "❌ Déconnecté"
}

func botStatusEmbed(discordOK, storeOK bool, latency time.Duration, now time.Time) *messaging.Embed {
	e := &messaging.Embed{
		Title:     "🔧 Statut du bot",
		Color:     messaging.ColorInfo,
		Timestamp: now,
	}
	e.AddField("Discord", connectionText(discordOK), true)
	e.AddField("Base de données", connectionText(storeOK), true)
	e.AddField("Latence", fmt.Sprintf("**%dms**", latency.Milliseconds()), true)
	return e
}

func pingEmbed(latency time.Duration) *messaging.Embed {
	color := messaging.ColorSuccess
	if latency >= 100*time.Millisecond {
		color = messaging.ColorWarning
	}
	return &messaging.Embed{
		Title:       "🏓 Pong!",
		Description: fmt.Sprintf("Latence: **%dms**", latency.Milliseconds()),
		Color:       color,
	}
}
