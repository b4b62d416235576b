package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/utils"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/model"
)

// UserRepository はユーザー情報の参照を担当するインターフェースです
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*model.User, error)
}

// UserRepositoryImpl はUserRepositoryの実装です
type UserRepositoryImpl struct {
	db *DB
}

// NewUserRepository は新しいUserRepositoryを作成します
func NewUserRepository(db *DB) UserRepository {
	return &UserRepositoryImpl{
		db: db,
	}
}

// GetByID は指定されたユーザーIDからユーザー情報を取得します
func (r *UserRepositoryImpl) GetByID(ctx context.Context, userID string) (*model.User, error) {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "UserRepository.GetByID")
	defer closeSeg(nil)

	query := `
		SELECT id, username
		FROM users
		WHERE id = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to get user: %v", model.ErrStore, err)
	}

	return &user, nil
}
