package model

import (
	"fmt"
	"time"
)

// ステータス変更イベントのルーティングキー
const (
	RoutingKeyReservationApproved = "reservation.approved"
	RoutingKeyReservationRejected = "reservation.rejected"
)

// ReservationStatusEvent は予約のステータス変更時に発行されるイベントです
type ReservationStatusEvent struct {
	ReservationID string    `json:"reservation_id"`
	UserID        string    `json:"user_id"`
	GameID        string    `json:"game_id"`
	Status        Status    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewReservationStatusEvent は予約と遷移先ステータスからイベントを作成します
func NewReservationStatusEvent(r *Reservation, status Status, reason string, now time.Time) ReservationStatusEvent {
	return ReservationStatusEvent{
		ReservationID: r.ID,
		UserID:        r.UserID,
		GameID:        r.GameID,
		Status:        status,
		Reason:        reason,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		CreatedAt:     now,
	}
}

// RoutingKey はイベントのルーティングキーを返します
func (e ReservationStatusEvent) RoutingKey() (string, error) {
	switch e.Status {
	case StatusApproved:
		return RoutingKeyReservationApproved, nil
	case StatusRejected:
		return RoutingKeyReservationRejected, nil
	}
	return "", fmt.Errorf("no routing key for status %q", e.Status)
}
