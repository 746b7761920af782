package background

import "time"

// Repeat calls do with the time elapsed since Repeat was called, once per interval,
// until cancel is called.
func Repeat(do func(elapsed time.Duration), interval time.Duration) (cancel func()) {
	start := time.Now()
	t := time.NewTicker(interval)
	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				do(time.Since(start))
			case <-done:
				return
			}
		}
	}()

	stopped := false
	return func() {
		if !stopped {
			stopped = true
			close(done)
			<-exited
		}
	}
}
