package messaging

import (
	"context"
	"slices"
	"time"
)

// 埋め込みの色
const (
	ColorSuccess  = 0x4CAF50
	ColorError    = 0xF44336
	ColorWarning  = 0xFF9800
	ColorInfo     = 0x2196F3
	ColorPending  = 0xFFC107
	ColorApproved = 0x4CAF50
	ColorRejected = 0xF44336
)

// Field は埋め込みの1フィールドです
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Embed はチャットプラットフォームに依存しない埋め込みメッセージです
type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []Field
	Footer      string
	Timestamp   time.Time
}

// AddField はフィールドを末尾に追加します
func (e *Embed) AddField(name, value string, inline bool) {
	e.Fields = append(e.Fields, Field{Name: name, Value: value, Inline: inline})
}

// SetField は name のフィールドを置き換えます。存在しない場合は末尾に追加します
func (e *Embed) SetField(name, value string, inline bool) {
	for i := range e.Fields {
		if e.Fields[i].Name == name {
			e.Fields[i] = Field{Name: name, Value: value, Inline: inline}
			return
		}
	}
	e.AddField(name, value, inline)
}

// Field は name のフィールドを返します
func (e *Embed) Field(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Message は投稿済みのメッセージです
type Message struct {
	ID        string
	ChannelID string
	AuthorID  string
	Embeds    []Embed
}

// Member はギルドのメンバーです
type Member struct {
	UserID      string
	DisplayName string
	RoleIDs     []string
	// Administrator はサーバー管理者権限(またはオーナー)を持つ場合に true です
	Administrator bool
}

// IsAdmin は管理ロールまたは管理者権限を持つかどうかを返します
// adminRoleID が空の場合はロールによる判定を行いません
func (m *Member) IsAdmin(adminRoleID string) bool {
	if m == nil {
		return false
	}
	if m.Administrator {
		return true
	}
	return adminRoleID != "" && slices.Contains(m.RoleIDs, adminRoleID)
}

// ReactionEvent はメッセージにリアクションが付与されたイベントです
type ReactionEvent struct {
	Emoji     string
	MessageID string
	ChannelID string
	GuildID   string
	UserID    string
}

// Gateway はチャットプラットフォームへの送受信を抽象化したインターフェースです
// 失敗は model.ErrGateway を包んだエラーで返します
type Gateway interface {
	SendEmbed(ctx context.Context, channelID string, embed Embed) (*Message, error)
	EditEmbed(ctx context.Context, channelID, messageID string, embed Embed) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	RemoveReaction(ctx context.Context, channelID, messageID, emoji, userID string) error
	FetchMessage(ctx context.Context, channelID, messageID string) (*Message, error)
	FetchMember(ctx context.Context, guildID, userID string) (*Member, error)
	// SyncCommands はスラッシュコマンドを再登録し、登録件数を返します
	SyncCommands(ctx context.Context) (int, error)
	BotUserID() string
	Latency() time.Duration
	Ready() bool
}
