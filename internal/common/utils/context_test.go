package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/clock"
)

func TestSleep(t *testing.T) {
	t.Run("期限到達で正常終了", func(t *testing.T) {
		c := clock.Fake(time.Now())
		errChan := make(chan error, 1)
		go func() {
			errChan <- Sleep(context.Background(), c, 2*time.Second)
		}()

		c.WaitForTimers(1)
		c.Advance(2 * time.Second)

		if err := <-errChan; err != nil {
			t.Errorf("Sleep() error = %v, want nil", err)
		}
	})

	t.Run("キャンセルで中断", func(t *testing.T) {
		c := clock.Fake(time.Now())
		ctx, cancel := context.WithCancel(context.Background())
		errChan := make(chan error, 1)
		go func() {
			errChan <- Sleep(ctx, c, time.Hour)
		}()

		c.WaitForTimers(1)
		cancel()

		if err := <-errChan; !errors.Is(err, context.Canceled) {
			t.Errorf("Sleep() error = %v, want context.Canceled", err)
		}
	})

	t.Run("0秒は待機しない", func(t *testing.T) {
		if err := Sleep(context.Background(), clock.Fake(time.Now()), 0); err != nil {
			t.Errorf("Sleep() error = %v, want nil", err)
		}
	})
}
