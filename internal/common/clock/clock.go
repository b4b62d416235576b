package clock

import "time"

// Clock は時刻操作を抽象化したインターフェースです
// 本番では Real() を、テストでは Fake() を注入します
type Clock interface {
	// Now は現在時刻を返します
	Now() time.Time
	// After は d 経過後に現在時刻を受信するチャネルを返します
	// d <= 0 の場合は即座に受信できます
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

// Real は time パッケージに委譲する Clock を返します
func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
