package model

// Reaction は通知メッセージに付与されるリアクションの種類です
type Reaction int

const (
	ReactionUnknown Reaction = iota
	ReactionApprove
	ReactionReject
	ReactionInfo
)

const (
	EmojiApprove = "✅"
	EmojiReject  = "❌"
	EmojiInfo    = "ℹ️"
)

// NotificationReactions は通知メッセージに付与する順序付きのリアクションです
var NotificationReactions = []string{EmojiApprove, EmojiReject, EmojiInfo}

// ParseReaction は絵文字をリアクション種別に変換します
// 異体字セレクタ(U+FE0F)の有無は区別しません
func ParseReaction(emoji string) Reaction {
	switch emoji {
	case EmojiApprove:
		return ReactionApprove
	case EmojiReject:
		return ReactionReject
	case EmojiInfo, "ℹ":
		return ReactionInfo
	}
	return ReactionUnknown
}

// Emoji はリアクション種別に対応する絵文字を返します
func (r Reaction) Emoji() string {
	switch r {
	case ReactionApprove:
		return EmojiApprove
	case ReactionReject:
		return EmojiReject
	case ReactionInfo:
		return EmojiInfo
	}
	return ""
}

// TargetStatus は状態遷移を伴うリアクションの遷移先を返します
func (r Reaction) TargetStatus() (Status, bool) {
	switch r {
	case ReactionApprove:
		return StatusApproved, true
	case ReactionReject:
		return StatusRejected, true
	}
	return "", false
}
