package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/clock"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/config"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/database"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/mq"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/scheduler"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/utils"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/messaging/discord"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/repository"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/service/bot"
)

const (
	projectName = "sbcntr-reservation-bot"
)

func main() {
	envFile := flag.String("env-file", config.DefaultEnvFile, "ローカル実行時に読み込む環境変数ファイル")
	shutdownTimeout := flag.Duration("shutdown-timeout", 30*time.Second, "終了処理の待機時間")
	flag.Parse()

	// 設定の読み込み
	cfg, err := config.LoadConfig(*envFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", utils.GetStackWithError(err))
	}

	// X-Ray設定
	if cfg.EnableTracing {
		if err := xray.Configure(xray.Config{
			DaemonAddr:     "127.0.0.1:2000", // X-Rayデーモンのアドレス
			ServiceVersion: "1.0.0",
		}); err != nil {
			log.Printf("Failed to configure X-Ray: %v", err)
			if configErr := xray.Configure(xray.Config{}); configErr != nil {
				log.Fatalf("Failed to configure default X-Ray settings: %v", configErr)
			}
		}
		os.Setenv("AWS_XRAY_CONTEXT_MISSING", "LOG_ERROR")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *shutdownTimeout); err != nil {
		log.Fatalf("Bot stopped with error: %v", utils.GetStackWithError(err))
	}
	log.Println("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, shutdownTimeout time.Duration) error {
	db, err := database.NewDB(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	repoDB := repository.NewDB(db.DB)
	if err := initSchema(ctx, repoDB); err != nil {
		return err
	}

	owner, closeOwner := newOwnerNotifier(cfg.MQ)
	defer closeOwner()

	gateway, err := discord.New(cfg.Discord)
	if err != nil {
		return err
	}

	clk := clock.Real()
	svc := bot.NewService(
		cfg,
		repository.NewReservationRepository(repoDB),
		repository.NewGameRepository(repoDB),
		repository.NewUserRepository(repoDB),
		gateway,
		owner,
		clk,
	)
	gateway.Bind(svc, svc)

	if err := gateway.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := gateway.Close(); err != nil {
			log.Printf("Failed to close discord session: %v", err)
		}
	}()
	log.Printf("%s started (channel %s)", projectName, cfg.Discord.ChannelID)

	sched := scheduler.New(clk, svc.Tasks()...)
	sched.Start(ctx)

	<-ctx.Done()
	log.Println("Shutdown signal received, waiting for background tasks")

	done := make(chan struct{})
	go func() {
		sched.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		log.Printf("Background tasks did not stop within %v", shutdownTimeout)
	}
	return nil
}

// initSchema はボットが所有するテーブルを作成します
func initSchema(ctx context.Context, db *repository.DB) error {
	ctx, closeSeg := utils.BeginSegment(ctx, projectName+".EnsureSchema")
	err := repository.EnsureSchema(ctx, db)
	closeSeg(err)
	return err
}

// newOwnerNotifier はブローカーが設定されている場合のみイベントを発行します
// 接続に失敗してもボットは起動し、ログ出力にフォールバックします
func newOwnerNotifier(cfg config.MQConfig) (bot.OwnerNotifier, func()) {
	if cfg.URL == "" {
		return bot.LogOwnerNotifier{}, func() {}
	}

	pub, err := mq.NewPublisher(cfg.URL, cfg.Exchange)
	if err != nil {
		log.Printf("Failed to connect to message broker, falling back to log notifier: %v", err)
		return bot.LogOwnerNotifier{}, func() {}
	}
	return bot.NewEventOwnerNotifier(pub, nil), func() {
		if err := pub.Close(); err != nil {
			log.Printf("Failed to close publisher: %v", err)
		}
	}
}
