package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/utils"
)

// DB はリポジトリから利用する X-Ray 計測付きの接続です
// 各メソッドはクエリ1件ごとにサブセグメントを開始し、クエリ文字列をメタデータに記録します
type DB struct {
	*sqlx.DB
}

// NewDB は sqlx.DB をリポジトリ用にラップします
func NewDB(db *sqlx.DB) *DB {
	return &DB{DB: db}
}

func traceQuery(ctx context.Context, name, query string) (context.Context, func(error)) {
	ctx, closeSeg := utils.BeginSubsegment(ctx, name)
	utils.AddMetadata(ctx, "query", query)
	return ctx, closeSeg
}

// SelectContext は複数行を dest のスライスへ読み込みます
// 結果の走査が終わるまでを同じサブセグメントで計測します
func (db *DB) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	ctx, closeSeg := traceQuery(ctx, "DB.Select", query)
	err := db.DB.SelectContext(ctx, dest, query, args...)
	closeSeg(err)
	return err
}

// GetContext は1行を dest へ読み込みます
func (db *DB) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	ctx, closeSeg := traceQuery(ctx, "DB.Get", query)
	err := db.DB.GetContext(ctx, dest, query, args...)

	// 0件は呼び出し側で判定するためセグメントのエラーにはしない
	if errors.Is(err, sql.ErrNoRows) {
		closeSeg(nil)
	} else {
		closeSeg(err)
	}
	return err
}

// ExecContext は更新系のクエリを実行します
func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	ctx, closeSeg := traceQuery(ctx, "DB.Exec", query)
	result, err := db.DB.ExecContext(ctx, query, args...)
	closeSeg(err)
	return result, err
}
