package discord

import (
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/utils"
)

func (g *Session) onMessageReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	base, reactions, _ := g.handlers()
	if reactions == nil || r.MessageReaction == nil {
		return
	}

	ctx, closeSeg := utils.BeginSegment(base, "Discord.Reaction")
	defer closeSeg(nil)

	reactions.HandleReaction(ctx, fromReactionAdd(r))
}

// onInteractionCreate は権限チェックの後に応答を遅延させ、処理結果をフォローアップで送信します
// 権限エラーは実行者のみに即座に返します
func (g *Session) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	base, _, commands := g.handlers()
	if commands == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	req := parseInteraction(i.Interaction)
	ctx, closeSeg := utils.BeginSegment(base, "Discord.Command")
	defer closeSeg(nil)
	utils.AddMetadata(ctx, "command", req.Name)

	if denied := commands.Authorize(ctx, req); denied != nil {
		if err := s.InteractionRespond(i.Interaction, toInteractionResponse(*denied), discordgo.WithContext(ctx)); err != nil {
			log.Printf("Failed to respond to interaction %s: %v", req.Name, err)
		}
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}, discordgo.WithContext(ctx))
	if err != nil {
		log.Printf("Failed to defer interaction %s: %v", req.Name, err)
		return
	}

	resp := commands.HandleCommand(ctx, req)
	if _, err := s.FollowupMessageCreate(i.Interaction, true, toWebhookParams(resp), discordgo.WithContext(ctx)); err != nil {
		log.Printf("Failed to send followup for %s: %v", req.Name, err)
	}
}

// onMessageCreate はプレフィックス付きのテキストコマンドを処理します
// 権限のないメンバーや対象外のチャンネルからのメッセージには応答しません
func (g *Session) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	base, _, commands := g.handlers()
	if commands == nil || m.Author == nil || m.Author.Bot {
		return
	}

	req, ok := parseText(g.prefix, m.Content)
	if !ok {
		return
	}

	ctx, closeSeg := utils.BeginSegment(base, "Discord.TextCommand")
	defer closeSeg(nil)

	req.ChannelID = m.ChannelID
	req.GuildID = m.GuildID
	if m.GuildID != "" {
		member, err := g.FetchMember(ctx, m.GuildID, m.Author.ID)
		if err != nil {
			log.Printf("Failed to fetch member for text command: %v", err)
			return
		}
		req.Invoker = *member
	}

	if denied := commands.Authorize(ctx, req); denied != nil {
		return
	}

	resp := commands.HandleCommand(ctx, req)
	if _, err := s.ChannelMessageSendComplex(m.ChannelID, toMessageSend(resp), discordgo.WithContext(ctx)); err != nil {
		log.Printf("Failed to reply to text command %s: %v", req.Name, err)
	}
}
