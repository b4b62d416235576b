package bot

import (
	"context"
	"log"

	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/clock"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/config"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/messaging"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/model"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/repository"
)

// Service は通知、リアクション、定期処理、コマンドを担当します
type Service struct {
	reservationRepo repository.ReservationRepository
	gameRepo        repository.GameRepository
	userRepo        repository.UserRepository
	gateway         messaging.Gateway
	owner           OwnerNotifier
	clock           clock.Clock
	cfg             *config.Config
}

var (
	_ messaging.ReactionHandler = (*Service)(nil)
	_ messaging.CommandHandler  = (*Service)(nil)
)

// NewService は新しいServiceを作成します
func NewService(
	cfg *config.Config,
	reservationRepo repository.ReservationRepository,
	gameRepo repository.GameRepository,
	userRepo repository.UserRepository,
	gateway messaging.Gateway,
	owner OwnerNotifier,
	clk clock.Clock,
) *Service {
	if owner == nil {
		owner = LogOwnerNotifier{}
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &Service{
		reservationRepo: reservationRepo,
		gameRepo:        gameRepo,
		userRepo:        userRepo,
		gateway:         gateway,
		owner:           owner,
		clock:           clk,
		cfg:             cfg,
	}
}

// lookupRefs は予約に紐付くゲームとユーザーを取得します
// 参照情報は表示のみに使うため、取得できない場合は nil として扱います
func (s *Service) lookupRefs(ctx context.Context, r *model.Reservation) (*model.Game, *model.User) {
	var (
		game *model.Game
		user *model.User
		err  error
	)
	if r.GameID != "" {
		if game, err = s.gameRepo.GetByID(ctx, r.GameID); err != nil {
			log.Printf("Failed to get game %s for reservation %s: %v", r.GameID, r.ID, err)
		}
	}
	if r.UserID != "" {
		if user, err = s.userRepo.GetByID(ctx, r.UserID); err != nil {
			log.Printf("Failed to get user %s for reservation %s: %v", r.UserID, r.ID, err)
		}
	}
	return game, user
}

func (s *Service) channelID() string {
	return s.cfg.Discord.ChannelID
}
