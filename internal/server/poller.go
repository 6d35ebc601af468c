package server

import "time"

// Poller runs fn on a fixed interval until stopped. It satisfies the
// Service contract: Start blocks, Stop exits the loop and waits for any
// in-flight call of fn to return.
type Poller struct {
	interval time.Duration
	fn       func()
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewPoller creates a Poller invoking fn every interval.
//
// Precondition: interval must be > 0; fn must be non-nil.
func NewPoller(interval time.Duration, fn func()) *Poller {
	if interval <= 0 {
		panic("server.NewPoller: interval must be > 0")
	}
	return &Poller{
		interval: interval,
		fn:       fn,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the poll loop until Stop is called.
func (p *Poller) Start() error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	defer close(p.doneCh)

	for {
		select {
		case <-p.stopCh:
			return nil
		case <-ticker.C:
			p.fn()
		}
	}
}

// Stop signals the loop to exit and waits until it has.
func (p *Poller) Stop() {
	close(p.stopCh)
	<-p.doneCh
}
