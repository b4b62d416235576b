package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/database"
)

// DefaultEnvFile はローカル実行時に読み込む環境変数ファイルです
const DefaultEnvFile = ".envbot"

// Config はボット全体の設定です
type Config struct {
	Discord       DiscordConfig
	DB            database.Config
	MQ            MQConfig
	Schedule      ScheduleConfig
	EnableTracing bool
}

// DiscordConfig はDiscord接続と権限チェックの設定です
type DiscordConfig struct {
	Token       string
	GuildID     string
	ChannelID   string
	AdminRoleID string
	Prefix      string
}

// MQConfig はステータス変更イベントの発行先です。URLが空の場合は発行しません
type MQConfig struct {
	URL      string
	Exchange string
}

// ScheduleConfig はバックグラウンドタスクの実行間隔です
type ScheduleConfig struct {
	NewReservationInterval time.Duration
	ReminderInterval       time.Duration
	DailySummaryInterval   time.Duration
	SendDelay              time.Duration
	ReminderAge            time.Duration
}

// env は環境変数の定義です
type env struct {
	DiscordToken string `envconfig:"DISCORD_TOKEN" required:"true"`
	GuildID      string `envconfig:"GUILD_ID"`
	ChannelID    string `envconfig:"CHANNEL_ID" required:"true"`
	AdminRoleID  string `envconfig:"ADMIN_ROLE_ID"`
	BotPrefix    string `envconfig:"BOT_PREFIX" default:"!"`

	DBDSN      string `envconfig:"DB_DSN"`
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUserName string `envconfig:"DB_USERNAME" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"bda_serv"`
	DBSSLMode  string `envconfig:"DB_SSL_MODE"`

	RabbitURL  string `envconfig:"RABBIT_URL"`
	MQExchange string `envconfig:"MQ_EXCHANGE" default:"reservation.exchange"`

	NewReservationInterval time.Duration `envconfig:"NEW_RESERVATION_INTERVAL" default:"10s"`
	ReminderInterval       time.Duration `envconfig:"REMINDER_INTERVAL" default:"1h"`
	DailySummaryInterval   time.Duration `envconfig:"DAILY_SUMMARY_INTERVAL" default:"24h"`
	SendDelay              time.Duration `envconfig:"SEND_DELAY" default:"2s"`
	ReminderAge            time.Duration `envconfig:"REMINDER_AGE" default:"24h"`
}

// LoadConfig は設定を読み込みます
// envFile が存在する場合は先に読み込み、既に設定済みの環境変数は上書きしません
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
			log.Printf("Env file %s not found, using process environment only", envFile)
		}
	}

	var e env
	if err := envconfig.Process("", &e); err != nil {
		return nil, err
	}

	cfg := &Config{
		Discord: DiscordConfig{
			Token:       e.DiscordToken,
			GuildID:     e.GuildID,
			ChannelID:   e.ChannelID,
			AdminRoleID: e.AdminRoleID,
			Prefix:      e.BotPrefix,
		},
		DB: database.Config{
			DSN:      e.DBDSN,
			Host:     e.DBHost,
			Port:     e.DBPort,
			UserName: e.DBUserName,
			Password: e.DBPassword,
			DBName:   e.DBName,
			SSLMode:  e.DBSSLMode,
		},
		MQ: MQConfig{
			URL:      e.RabbitURL,
			Exchange: e.MQExchange,
		},
		Schedule: ScheduleConfig{
			NewReservationInterval: e.NewReservationInterval,
			ReminderInterval:       e.ReminderInterval,
			DailySummaryInterval:   e.DailySummaryInterval,
			SendDelay:              e.SendDelay,
			ReminderAge:            e.ReminderAge,
		},
		EnableTracing: false,
	}

	// 環境変数[SBCNTR_ENABLE_TRACING]を見てトレースを有効にする。対応しているTracingはAWS_XRAYのみ。
	// 環境変数[AWS_XRAY_SDK_DISABLED]がtrueの場合は必ずトレースを無効にする。
	enableKey := os.Getenv("SBCNTR_ENABLE_TRACING")
	if !sdkDisabled() && (strings.ToLower(enableKey) == "true" || enableKey == "1") {
		os.Setenv("AWS_XRAY_SDK_DISABLED", "FALSE")
		cfg.EnableTracing = true
	} else {
		os.Setenv("AWS_XRAY_SDK_DISABLED", "TRUE")
		cfg.EnableTracing = false
	}

	return cfg, nil
}

// Check if SDK is disabled
func sdkDisabled() bool {
	disableKey := os.Getenv("AWS_XRAY_SDK_DISABLED")
	return strings.ToLower(disableKey) == "true"
}
