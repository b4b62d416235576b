package discord

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/config"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/utils"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/messaging"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/model"
)

// Intents はボットが購読するゲートウェイイベントです
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMessageReactions |
	discordgo.IntentsMessageContent

// Session は discordgo による messaging.Gateway の実装です
type Session struct {
	s           *discordgo.Session
	guildID     string
	adminRoleID string
	prefix      string

	mu        sync.RWMutex
	baseCtx   context.Context
	reactions messaging.ReactionHandler
	commands  messaging.CommandHandler
}

var _ messaging.Gateway = (*Session)(nil)

// New はセッションを作成します。接続は Open で行います
func New(cfg config.DiscordConfig) (*Session, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	s.Identify.Intents = Intents

	g := &Session{
		s:           s,
		guildID:     cfg.GuildID,
		adminRoleID: cfg.AdminRoleID,
		prefix:      cfg.Prefix,
		baseCtx:     context.Background(),
	}
	s.AddHandler(g.onReady)
	s.AddHandler(g.onMessageReactionAdd)
	s.AddHandler(g.onInteractionCreate)
	s.AddHandler(g.onMessageCreate)
	return g, nil
}

// Bind はイベントの処理先を設定します。Open より前に呼び出します
func (g *Session) Bind(reactions messaging.ReactionHandler, commands messaging.CommandHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reactions = reactions
	g.commands = commands
}

// Open はゲートウェイに接続します。ctx はイベント処理の親コンテキストになります
func (g *Session) Open(ctx context.Context) error {
	g.mu.Lock()
	g.baseCtx = ctx
	g.mu.Unlock()

	if err := g.s.Open(); err != nil {
		return fmt.Errorf("%w: failed to open discord session: %v", model.ErrGateway, err)
	}
	return nil
}

// Close はゲートウェイから切断します
func (g *Session) Close() error {
	return g.s.Close()
}

func (g *Session) handlers() (context.Context, messaging.ReactionHandler, messaging.CommandHandler) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.baseCtx, g.reactions, g.commands
}

func (g *Session) SendEmbed(ctx context.Context, channelID string, embed messaging.Embed) (*messaging.Message, error) {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "Discord.SendEmbed")
	m, err := g.s.ChannelMessageSendEmbed(channelID, toDiscordEmbed(embed), discordgo.WithContext(ctx))
	closeSeg(err)
	if err != nil {
		return nil, fmt.Errorf("%w: send embed to %s: %v", model.ErrGateway, channelID, err)
	}
	return fromDiscordMessage(m), nil
}

func (g *Session) EditEmbed(ctx context.Context, channelID, messageID string, embed messaging.Embed) error {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "Discord.EditEmbed")
	_, err := g.s.ChannelMessageEditEmbed(channelID, messageID, toDiscordEmbed(embed), discordgo.WithContext(ctx))
	closeSeg(err)
	if err != nil {
		return fmt.Errorf("%w: edit message %s: %v", model.ErrGateway, messageID, err)
	}
	return nil
}

func (g *Session) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "Discord.DeleteMessage")
	err := g.s.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
	closeSeg(err)
	if err != nil {
		return fmt.Errorf("%w: delete message %s: %v", model.ErrGateway, messageID, err)
	}
	return nil
}

func (g *Session) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "Discord.AddReaction")
	err := g.s.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx))
	closeSeg(err)
	if err != nil {
		return fmt.Errorf("%w: add reaction %s to %s: %v", model.ErrGateway, emoji, messageID, err)
	}
	return nil
}

func (g *Session) RemoveReaction(ctx context.Context, channelID, messageID, emoji, userID string) error {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "Discord.RemoveReaction")
	err := g.s.MessageReactionRemove(channelID, messageID, emoji, userID, discordgo.WithContext(ctx))
	closeSeg(err)
	if err != nil {
		return fmt.Errorf("%w: remove reaction %s from %s: %v", model.ErrGateway, emoji, messageID, err)
	}
	return nil
}

func (g *Session) FetchMessage(ctx context.Context, channelID, messageID string) (*messaging.Message, error) {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "Discord.FetchMessage")
	m, err := g.s.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	closeSeg(err)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch message %s: %v", model.ErrGateway, messageID, err)
	}
	return fromDiscordMessage(m), nil
}

// FetchMember はメンバーを取得し、ロールとギルドオーナーから管理者権限を判定します
func (g *Session) FetchMember(ctx context.Context, guildID, userID string) (*messaging.Member, error) {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "Discord.FetchMember")

	m, err := g.s.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		closeSeg(err)
		return nil, fmt.Errorf("%w: fetch member %s: %v", model.ErrGateway, userID, err)
	}

	roles, err := g.s.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		closeSeg(err)
		return nil, fmt.Errorf("%w: fetch roles of %s: %v", model.ErrGateway, guildID, err)
	}
	closeSeg(nil)

	perms := memberPermissions(guildID, roles, m.Roles)
	if g.isGuildOwner(guildID, userID) {
		perms |= discordgo.PermissionAdministrator
	}
	return fromDiscordMember(m, userID, perms), nil
}

func (g *Session) isGuildOwner(guildID, userID string) bool {
	if g.s.State == nil {
		return false
	}
	guild, err := g.s.State.Guild(guildID)
	if err != nil {
		return false
	}
	return guild.OwnerID == userID
}

// SyncCommands はスラッシュコマンドを一括で上書き登録します
// ギルドIDが未設定の場合はグローバルコマンドとして登録します
func (g *Session) SyncCommands(ctx context.Context) (int, error) {
	appID := g.BotUserID()
	if appID == "" {
		return 0, fmt.Errorf("%w: session is not ready", model.ErrGateway)
	}

	ctx, closeSeg := utils.BeginSubsegment(ctx, "Discord.SyncCommands")
	registered, err := g.s.ApplicationCommandBulkOverwrite(appID, g.guildID, Commands(g.adminRoleID), discordgo.WithContext(ctx))
	closeSeg(err)
	if err != nil {
		return 0, fmt.Errorf("%w: register commands: %v", model.ErrGateway, err)
	}
	return len(registered), nil
}

func (g *Session) BotUserID() string {
	if g.s.State == nil {
		return ""
	}
	g.s.State.RLock()
	defer g.s.State.RUnlock()
	if g.s.State.User == nil {
		return ""
	}
	return g.s.State.User.ID
}

func (g *Session) Latency() time.Duration {
	return g.s.HeartbeatLatency()
}

func (g *Session) Ready() bool {
	return g.s.DataReady
}

func (g *Session) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("Connected to Discord as %s (%d guilds)", r.User.Username, len(r.Guilds))

	ctx, _, _ := g.handlers()
	go func() {
		ctx, closeSeg := utils.BeginSegment(ctx, "Discord.Ready")
		n, err := g.SyncCommands(ctx)
		closeSeg(err)
		if err != nil {
			log.Printf("Failed to register slash commands: %v", err)
			return
		}
		log.Printf("Registered %d slash commands", n)
	}()
}
