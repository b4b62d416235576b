package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/utils"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/model"
)

// ReservationRepository は予約の参照と状態遷移を担当するインターフェースです
// 存在しない場合はエラーではなく nil を返します
type ReservationRepository interface {
	GetReservations(ctx context.Context, status *model.Status) ([]model.Reservation, error)
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetByMessageID(ctx context.Context, messageID string) (*model.Reservation, error)
	// UpdateStatus は pending の予約のみを更新し、更新した場合に true を返します
	UpdateStatus(ctx context.Context, id string, status model.Status, adminNotes string) (bool, error)
	// BindMessage は予約と通知メッセージを紐付けます。既に紐付いている場合は model.ErrAlreadyBound を返します
	BindMessage(ctx context.Context, id, channelID, messageID string) error
	Ping(ctx context.Context) error
}

type ReservationRepositoryImpl struct {
	db *DB
}

func NewReservationRepository(db *DB) *ReservationRepositoryImpl {
	return &ReservationRepositoryImpl{db: db}
}

// reservationRow は reservations と reservation_messages の結合結果です
type reservationRow struct {
	ID         string         `db:"id"`
	Status     string         `db:"status"`
	StartDate  time.Time      `db:"start_date"`
	EndDate    time.Time      `db:"end_date"`
	UserName   string         `db:"user_name"`
	Notes      sql.NullString `db:"notes"`
	AdminNotes sql.NullString `db:"admin_notes"`
	GameID     string         `db:"game_id"`
	UserID     string         `db:"user_id"`
	MessageID  sql.NullString `db:"message_id"`
	ChannelID  sql.NullString `db:"channel_id"`
}

func (r reservationRow) toModel() model.Reservation {
	return model.Reservation{
		ID:         r.ID,
		Status:     model.Status(r.Status),
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		UserName:   r.UserName,
		Notes:      r.Notes.String,
		AdminNotes: r.AdminNotes.String,
		GameID:     r.GameID,
		UserID:     r.UserID,
		MessageID:  r.MessageID.String,
		ChannelID:  r.ChannelID.String,
	}
}

const selectReservation = `
	SELECT
		r.id,
		r.status,
		r.start_date,
		r.end_date,
		r.user_name,
		r.notes,
		r.admin_notes,
		r.game_id,
		r.user_id,
		m.message_id,
		m.channel_id
	FROM reservations r
	LEFT JOIN reservation_messages m ON m.reservation_id = r.id
`

// GetReservations は予約を開始日時の昇順で取得します。status が nil の場合は全件です
func (r *ReservationRepositoryImpl) GetReservations(ctx context.Context, status *model.Status) ([]model.Reservation, error) {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "ReservationRepository.GetReservations")

	query := selectReservation
	var args []interface{}
	if status != nil {
		query += ` WHERE r.status = $1`
		args = append(args, string(*status))
	}
	query += ` ORDER BY r.start_date ASC`

	var rows []reservationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		closeSeg(err)
		return nil, fmt.Errorf("%w: failed to query reservations: %v", model.ErrStore, err)
	}
	closeSeg(nil)

	reservations := make([]model.Reservation, 0, len(rows))
	for _, row := range rows {
		reservations = append(reservations, row.toModel())
	}
	return reservations, nil
}

// GetByID は予約IDで予約を取得します
func (r *ReservationRepositoryImpl) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "ReservationRepository.GetByID")
	defer closeSeg(nil)

	return r.getOne(ctx, selectReservation+` WHERE r.id = $1`, id)
}

// GetByMessageID は通知メッセージIDから予約を取得します
func (r *ReservationRepositoryImpl) GetByMessageID(ctx context.Context, messageID string) (*model.Reservation, error) {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "ReservationRepository.GetByMessageID")
	defer closeSeg(nil)

	return r.getOne(ctx, selectReservation+` WHERE m.message_id = $1`, messageID)
}

func (r *ReservationRepositoryImpl) getOne(ctx context.Context, query string, arg string) (*model.Reservation, error) {
	var row reservationRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to get reservation: %v", model.ErrStore, err)
	}

	reservation := row.toModel()
	return &reservation, nil
}

// UpdateStatus は予約のステータスを更新します
// WHERE 句で pending を条件にしているため、同時に承認と却下が行われても更新されるのは先の1件のみです
func (r *ReservationRepositoryImpl) UpdateStatus(ctx context.Context, id string, status model.Status, adminNotes string) (bool, error) {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "ReservationRepository.UpdateStatus")

	query := `
		UPDATE reservations
		SET status = $1,
			admin_notes = COALESCE(NULLIF($2, ''), admin_notes),
			updated_at = $3
		WHERE id = $4
		AND status = $5
	`

	result, err := r.db.ExecContext(ctx, query, string(status), adminNotes, time.Now(), id, string(model.StatusPending))
	if err != nil {
		closeSeg(err)
		return false, fmt.Errorf("%w: failed to update reservation status: %v", model.ErrStore, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		closeSeg(err)
		return false, fmt.Errorf("%w: failed to get rows affected: %v", model.ErrStore, err)
	}

	closeSeg(nil)
	return rowsAffected > 0, nil
}

// BindMessage は予約と通知メッセージの紐付けを保存します
func (r *ReservationRepositoryImpl) BindMessage(ctx context.Context, id, channelID, messageID string) error {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "ReservationRepository.BindMessage")

	query := `
		INSERT INTO reservation_messages (
			reservation_id, message_id, channel_id, created_at
		) VALUES (
			$1, $2, $3, $4
		)
		ON CONFLICT (reservation_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, id, messageID, channelID, time.Now())
	if err != nil {
		closeSeg(err)
		return fmt.Errorf("%w: failed to bind message: %v", model.ErrStore, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		closeSeg(err)
		return fmt.Errorf("%w: failed to get rows affected: %v", model.ErrStore, err)
	}

	closeSeg(nil)
	if rowsAffected == 0 {
		return fmt.Errorf("reservation %s: %w", id, model.ErrAlreadyBound)
	}
	return nil
}

// Ping は予約ストアへの疎通を確認します
func (r *ReservationRepositoryImpl) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", model.ErrStore, err)
	}
	return nil
}
