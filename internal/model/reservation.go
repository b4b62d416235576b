package model

import "time"

// Status は予約のステータスを表します
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsKnown は定義済みのステータスかどうかを返します
func (s Status) IsKnown() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Reservation は予約のドメインモデルです
// 予約は外部のWebアプリケーションが pending で作成し、このボットは承認/却下の遷移のみ行います
type Reservation struct {
	ID         string
	Status     Status
	StartDate  time.Time
	EndDate    time.Time
	UserName   string
	Notes      string
	AdminNotes string
	GameID     string
	UserID     string
	// MessageID は投稿済み通知メッセージへの紐付けです。未通知の場合は空文字です
	MessageID string
	ChannelID string
}

// IsPending は承認待ちかどうかを返します
func (r *Reservation) IsPending() bool {
	return r.Status == StatusPending
}

// IsBound は通知メッセージと紐付いているかどうかを返します
func (r *Reservation) IsBound() bool {
	return r.MessageID != ""
}

// Game は表示用に参照するゲーム情報です
type Game struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Players  string `db:"players"`
	Duration string `db:"duration"`
	Age      string `db:"age"`
}

// User は表示用に参照するユーザー情報です
type User struct {
	ID       string `db:"id"`
	Username string `db:"username"`
}
