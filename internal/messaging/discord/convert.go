package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/messaging"
)

func toDiscordEmbed(e messaging.Embed) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	for _, f := range e.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	if e.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}
	if !e.Timestamp.IsZero() {
		embed.Timestamp = e.Timestamp.UTC().Format(time.RFC3339)
	}
	return embed
}

func fromDiscordEmbed(embed *discordgo.MessageEmbed) messaging.Embed {
	e := messaging.Embed{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       embed.Color,
	}
	for _, f := range embed.Fields {
		if f == nil {
			continue
		}
		e.AddField(f.Name, f.Value, f.Inline)
	}
	if embed.Footer != nil {
		e.Footer = embed.Footer.Text
	}
	if embed.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, embed.Timestamp); err == nil {
			e.Timestamp = ts
		}
	}
	return e
}

func fromDiscordMessage(m *discordgo.Message) *messaging.Message {
	msg := &messaging.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
	}
	for _, embed := range m.Embeds {
		if embed == nil {
			continue
		}
		msg.Embeds = append(msg.Embeds, fromDiscordEmbed(embed))
	}
	return msg
}

// fromDiscordMember は permissions を計算済みの権限としてメンバーを変換します
func fromDiscordMember(m *discordgo.Member, userID string, permissions int64) *messaging.Member {
	member := &messaging.Member{
		UserID:        userID,
		RoleIDs:       append([]string(nil), m.Roles...),
		Administrator: permissions&discordgo.PermissionAdministrator != 0,
	}
	member.DisplayName = displayName(m)
	if member.UserID == "" && m.User != nil {
		member.UserID = m.User.ID
	}
	return member
}

func displayName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User == nil {
		return ""
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}

// memberPermissions はロールから実効権限を計算します
// @everyone ロール(ギルドIDと同じID)の権限を常に含めます
func memberPermissions(guildID string, roles []*discordgo.Role, memberRoles []string) int64 {
	byID := make(map[string]int64, len(roles))
	for _, r := range roles {
		byID[r.ID] = r.Permissions
	}

	perms := byID[guildID]
	for _, id := range memberRoles {
		perms |= byID[id]
	}
	return perms
}

func toWebhookParams(resp messaging.CommandResponse) *discordgo.WebhookParams {
	params := &discordgo.WebhookParams{Content: resp.Content}
	if resp.Embed != nil {
		params.Embeds = []*discordgo.MessageEmbed{toDiscordEmbed(*resp.Embed)}
	}
	if resp.Ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	return params
}

func toInteractionResponse(resp messaging.CommandResponse) *discordgo.InteractionResponse {
	data := &discordgo.InteractionResponseData{Content: resp.Content}
	if resp.Embed != nil {
		data.Embeds = []*discordgo.MessageEmbed{toDiscordEmbed(*resp.Embed)}
	}
	if resp.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}
}

func toMessageSend(resp messaging.CommandResponse) *discordgo.MessageSend {
	send := &discordgo.MessageSend{Content: resp.Content}
	if resp.Embed != nil {
		send.Embeds = []*discordgo.MessageEmbed{toDiscordEmbed(*resp.Embed)}
	}
	return send
}

// fromReactionAdd はリアクション追加イベントを変換します
// カスタム絵文字は削除APIが要求する name:id 形式で保持します
func fromReactionAdd(r *discordgo.MessageReactionAdd) messaging.ReactionEvent {
	return messaging.ReactionEvent{
		Emoji:     r.Emoji.APIName(),
		MessageID: r.MessageID,
		ChannelID: r.ChannelID,
		GuildID:   r.GuildID,
		UserID:    r.UserID,
	}
}
