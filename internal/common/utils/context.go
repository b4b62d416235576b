package utils

import (
	"context"
	"time"

	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/clock"
)

// Sleep は指定された時間だけ待機する
// 待機中にコンテキストがキャンセルされた場合は ctx.Err() を返す
func Sleep(ctx context.Context, clk clock.Clock, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	select {
	case <-clk.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
