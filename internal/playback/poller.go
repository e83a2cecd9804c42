package playback

import "time"

// poll refreshes elapsed time from the media clock while playing. It
// never changes the play state.
func (c *Controller) poll() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.tick()
		}
	}
}

func (c *Controller) tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != StatusPlaying {
		return
	}
	elapsed, duration := c.media.Position()
	c.elapsed = elapsed
	if c.duration <= 0 && duration > 0 {
		c.duration = duration
	}
	c.publishLocked()
}

func (c *Controller) watchEnded() {
	defer c.wg.Done()
	ended := c.media.Ended()
	for {
		select {
		case <-c.ctx.Done():
			return
		case _, ok := <-ended:
			if !ok {
				return
			}
			c.handleEnded()
		}
	}
}
