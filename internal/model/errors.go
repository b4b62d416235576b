package model

import "errors"

var (
	// ErrNotFound は対象のエンティティが存在しないことを表します
	ErrNotFound = errors.New("not found")
	// ErrNotBound は予約に通知メッセージが紐付いていないことを表します
	ErrNotBound = errors.New("no message bound to reservation")
	// ErrAlreadyBound は予約に既に通知メッセージが紐付いていることを表します
	ErrAlreadyBound = errors.New("reservation already bound to a message")
	// ErrMessageUnavailable は通知メッセージの取得や編集に失敗したことを表します
	ErrMessageUnavailable = errors.New("message unavailable")
	// ErrUnauthorized は権限またはチャンネルのチェックに失敗したことを表します
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotPending は予約が承認待ちではないことを表します
	ErrNotPending = errors.New("reservation is not pending")
	// ErrGateway はメッセージング基盤の一時的な失敗を表します
	ErrGateway = errors.New("gateway error")
	// ErrStore は永続化層の失敗を表します
	ErrStore = errors.New("store error")
)
