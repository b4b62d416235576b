package messaging

import "context"

// コマンド名
const (
	CommandReservations     = "reservations"
	CommandStats            = "stats"
	CommandStatus           = "status"
	CommandPing             = "ping"
	CommandSync             = "sync"
	CommandTestNotification = "test_notification"
	CommandNotifyAll        = "notify_all"
	CommandHelp             = "help"
)

// reservations コマンドのアクション
const (
	ActionList    = "list"
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionInfo    = "info"
)

// CommandRequest はスラッシュコマンドまたはテキストコマンドの呼び出しです
type CommandRequest struct {
	Name          string
	Action        string
	ReservationID string
	Reason        string
	ChannelID     string
	GuildID       string
	Invoker       Member
	// FromText はプレフィックス付きのテキストメッセージから呼び出された場合に true です
	FromText bool
}

// CommandResponse はコマンドの応答です
// Ephemeral の応答は実行者のみに表示されます
type CommandResponse struct {
	Embed     *Embed
	Content   string
	Ephemeral bool
}

// CommandHandler はコマンドを処理します
type CommandHandler interface {
	// Authorize は実行可否を判定し、拒否する場合のみ応答を返します
	Authorize(ctx context.Context, req CommandRequest) *CommandResponse
	HandleCommand(ctx context.Context, req CommandRequest) CommandResponse
}

// ReactionHandler はリアクションイベントを処理します
type ReactionHandler interface {
	HandleReaction(ctx context.Context, event ReactionEvent)
}
