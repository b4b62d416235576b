package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/utils"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/model"
)

// GameRepository はゲーム情報の参照を担当するインターフェースです
type GameRepository interface {
	GetByID(ctx context.Context, gameID string) (*model.Game, error)
}

// GameRepositoryImpl はGameRepositoryの実装です
type GameRepositoryImpl struct {
	db *DB
}

// NewGameRepository は新しいGameRepositoryを作成します
func NewGameRepository(db *DB) GameRepository {
	return &GameRepositoryImpl{
		db: db,
	}
}

// GetByID は指定されたゲームIDからゲーム情報を取得します
func (r *GameRepositoryImpl) GetByID(ctx context.Context, gameID string) (*model.Game, error) {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "GameRepository.GetByID")
	defer closeSeg(nil)

	query := `
		SELECT id, name, players, duration, age
		FROM games
		WHERE id = $1`

	var game model.Game
	if err := r.db.GetContext(ctx, &game, query, gameID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to get game: %v", model.ErrStore, err)
	}

	return &game, nil
}
