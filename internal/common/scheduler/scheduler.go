package scheduler

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/clock"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/utils"
)

// Task は定期実行されるバックグラウンド処理の定義です
type Task struct {
	Name string
	// InitialDelay は起動直後の初回実行までの待機時間です
	InitialDelay time.Duration
	// Interval は実行間隔です。前回の実行終了から計測します
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler はタスクごとにゴルーチンを起動し、コンテキストのキャンセルまで繰り返し実行します
type Scheduler struct {
	clock clock.Clock
	tasks []Task
	wg    sync.WaitGroup
}

// New は新しい Scheduler を作成します
func New(clk clock.Clock, tasks ...Task) *Scheduler {
	return &Scheduler{
		clock: clk,
		tasks: tasks,
	}
}

// Start は全タスクを起動します。ブロックしません
func (s *Scheduler) Start(ctx context.Context) {
	for _, task := range s.tasks {
		s.wg.Add(1)
		go func(task Task) {
			defer s.wg.Done()
			s.loop(ctx, task)
		}(task)
	}
}

// Wait は全タスクの停止を待機します
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, task Task) {
	log.Printf("Task %s scheduled (initial delay %v, interval %v)", task.Name, task.InitialDelay, task.Interval)

	if err := utils.Sleep(ctx, s.clock, task.InitialDelay); err != nil {
		log.Printf("Task %s stopped before first run", task.Name)
		return
	}

	for {
		if err := s.runOnce(ctx, task); err != nil {
			log.Printf("Task %s failed: %v", task.Name, err)
		}

		if err := utils.Sleep(ctx, s.clock, task.Interval); err != nil {
			log.Printf("Task %s stopped", task.Name)
			return
		}
	}
}

// runOnce はタスクを1回実行します
// パニックはエラーに変換し、ループを止めないようにします
func (s *Scheduler) runOnce(ctx context.Context, task Task) (err error) {
	ctx, closeSeg := utils.BeginSegment(ctx, "Scheduler."+task.Name)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in task %s: %v\nStack trace:\n%s", task.Name, r, debug.Stack())
		}
		closeSeg(err)
	}()

	return task.Run(ctx)
}
