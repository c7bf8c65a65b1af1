package console

import "time"

// Done exposes the reader goroutine's exit signal to the external tests.
func (c *Capturer) Done() <-chan struct{} {
	return c.done
}

// SetJoinTimeout overrides how long Stop waits for the reader.
func (c *Capturer) SetJoinTimeout(d time.Duration) {
	c.joinTimeout = d
}
