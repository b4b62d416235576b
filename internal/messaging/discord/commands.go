package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/messaging"
)

// defaultPermissions はコマンドを表示するメンバーの既定の権限です
// 管理者ロールが設定されている場合はロールだけを持つメンバーにも表示する必要があるため制限しません。
// どちらの場合も実行時に Authorize で判定します
func defaultPermissions(adminRoleID string) *int64 {
	if adminRoleID != "" {
		return nil
	}
	adminOnly := int64(discordgo.PermissionAdministrator)
	return &adminOnly
}

// Commands は登録するスラッシュコマンドの定義です
func Commands(adminRoleID string) []*discordgo.ApplicationCommand {
	perms := defaultPermissions(adminRoleID)
	return []*discordgo.ApplicationCommand{
		{
			Name:        messaging.CommandReservations,
			Description: "Gérer les réservations",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "action",
					Description: "Action à effectuer",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: messaging.ActionList, Value: messaging.ActionList},
						{Name: messaging.ActionApprove, Value: messaging.ActionApprove},
						{Name: messaging.ActionReject, Value: messaging.ActionReject},
						{Name: messaging.ActionInfo, Value: messaging.ActionInfo},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reservation_id",
					Description: "ID de la réservation (pour approve/reject/info)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Raison du rejet",
				},
			},
			DefaultMemberPermissions: perms,
		},
		{
			Name:                     messaging.CommandStats,
			Description:              "Afficher les statistiques des réservations",
			DefaultMemberPermissions: perms,
		},
		{
			Name:                     messaging.CommandStatus,
			Description:              "Afficher le statut du bot",
			DefaultMemberPermissions: perms,
		},
		{
			Name:        messaging.CommandPing,
			Description: "Vérifier la latence du bot",
		},
		{
			Name:                     messaging.CommandSync,
			Description:              "Synchroniser les commandes slash",
			DefaultMemberPermissions: perms,
		},
		{
			Name:                     messaging.CommandTestNotification,
			Description:              "Envoie une notification de test avec réactions",
			DefaultMemberPermissions: perms,
		},
		{
			Name:                     messaging.CommandNotifyAll,
			Description:              "Envoie des notifications pour toutes les réservations en attente",
			DefaultMemberPermissions: perms,
		},
		{
			Name:        messaging.CommandHelp,
			Description: "Afficher l'aide du bot",
		},
	}
}

// parseInteraction はスラッシュコマンドの呼び出しを CommandRequest に変換します
func parseInteraction(i *discordgo.Interaction) messaging.CommandRequest {
	data := i.ApplicationCommandData()
	req := messaging.CommandRequest{
		Name:      data.Name,
		ChannelID: i.ChannelID,
		GuildID:   i.GuildID,
	}

	for _, opt := range data.Options {
		value, ok := opt.Value.(string)
		if !ok {
			continue
		}
		switch opt.Name {
		case "action":
			req.Action = value
		case "reservation_id":
			req.ReservationID = strings.TrimSpace(value)
		case "reason":
			req.Reason = strings.TrimSpace(value)
		}
	}

	if i.Member != nil {
		var userID string
		if i.Member.User != nil {
			userID = i.Member.User.ID
		}
		req.Invoker = *fromDiscordMember(i.Member, userID, i.Member.Permissions)
	} else if i.User != nil {
		req.Invoker = messaging.Member{UserID: i.User.ID, DisplayName: i.User.Username}
	}
	return req
}

// テキストコマンドとスラッシュコマンドの対応
var textCommands = map[string]messaging.CommandRequest{
	"list":  {Name: messaging.CommandReservations, Action: messaging.ActionList},
	"stats": {Name: messaging.CommandStats},
	"help":  {Name: messaging.CommandHelp},
}

// parseText はプレフィックス付きのテキストメッセージを CommandRequest に変換します
// 対応するコマンドがない場合は false を返します
func parseText(prefix, content string) (messaging.CommandRequest, bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return messaging.CommandRequest{}, false
	}

	parts := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(parts) == 0 {
		return messaging.CommandRequest{}, false
	}

	req, ok := textCommands[strings.ToLower(parts[0])]
	if !ok {
		return messaging.CommandRequest{}, false
	}
	req.FromText = true
	return req, true
}
