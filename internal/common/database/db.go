package database

import (
	"fmt"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type DB struct {
	*sqlx.DB
}

// Config は予約ストアへの接続設定です
// DSN が指定されている場合は個別の接続パラメータより優先します
type Config struct {
	DSN      string
	Host     string
	Port     int
	UserName string
	Password string
	DBName   string
	SSLMode  string
}

// ConnectionString は lib/pq 形式の接続文字列を返します
func (c Config) ConnectionString() string {
	if c.DSN != "" {
		return c.DSN
	}

	sslMode := c.SSLMode
	if sslMode == "" {
		// localhostのDBの場合はSSLを無効化
		if c.Host == "localhost" {
			sslMode = "disable"
		} else {
			sslMode = "require"
		}
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.UserName,
		c.Password,
		c.DBName,
		sslMode,
	)
}

// NewDB は予約ストアへ接続します
// 接続確認に失敗した場合は起動を継続できないためエラーを返します
func NewDB(cfg Config) (*DB, error) {
	// X-Ray対応のSQLコンテキストを作成
	db, err := xray.SQLContext("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database with X-Ray: %w", err)
	}

	// コネクションプールの設定
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 接続テスト
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{sqlx.NewDb(db, "postgres")}, nil
}
