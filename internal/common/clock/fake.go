package clock

import (
	"sort"
	"sync"
	"time"
)

// FakeClock はテスト用の決定的な Clock です
// Advance を呼び出した時だけ時刻が進み、期限を過ぎた待機が発火します
type FakeClock struct {
	mu             sync.Mutex
	current        time.Time
	waiters        []*fakeWaiter
	waitersChanged *sync.Cond
}

type fakeWaiter struct {
	deadline time.Time
	channel  chan time.Time
}

// Fake は initial を現在時刻とする FakeClock を作成します
func Fake(initial time.Time) *FakeClock {
	c := &FakeClock{current: initial}
	c.waitersChanged = sync.NewCond(&c.mu)
	return c
}

// Now は現在の疑似時刻を返します
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// After は d 経過後に受信できるチャネルを返します
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.current
		return ch
	}

	c.waiters = append(c.waiters, &fakeWaiter{
		deadline: c.current.Add(d),
		channel:  ch,
	})
	c.waitersChanged.Broadcast()
	return ch
}

// Advance は時刻を d 進め、期限を迎えた待機を期限順に発火させます
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	target := c.current

	var fire, remaining []*fakeWaiter
	for _, w := range c.waiters {
		if w.deadline.After(target) {
			remaining = append(remaining, w)
			continue
		}
		fire = append(fire, w)
	}
	c.waiters = remaining
	c.mu.Unlock()

	sort.Slice(fire, func(i, j int) bool {
		return fire[i].deadline.Before(fire[j].deadline)
	})
	for _, w := range fire {
		select {
		case w.channel <- target:
		default:
		}
	}
}

// WaitForTimers は未発火の待機が n 件以上登録されるまでブロックします
// ゴルーチンによる After の登録とテスト側の Advance の競合を防ぐために使います
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.waiters) < n {
		c.waitersChanged.Wait()
	}
}

// PendingCount は未発火の待機件数を返します
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}
