package timing

import "time"

// Ticker paces frames off a time.Ticker. Missed ticks are dropped by the
// runtime, so a slow frame never causes a burst of fast ones.
type Ticker struct {
	ticker *time.Ticker
}

func NewTicker() *Ticker {
	return &Ticker{ticker: time.NewTicker(FrameDuration())}
}

func (t *Ticker) WaitForNextFrame() {
	<-t.ticker.C
}

func (t *Ticker) Reset() {
	t.ticker.Reset(FrameDuration())
}

// Stop releases the underlying ticker.
func (t *Ticker) Stop() {
	t.ticker.Stop()
}
