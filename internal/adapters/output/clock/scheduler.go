package clock

import (
	"neosmart-shades/internal/ports"
	"time"
)

// Scheduler runs callbacks on runtime timers.
type Scheduler struct{}

func (Scheduler) AfterFunc(d time.Duration, f func()) ports.Task {
	return time.AfterFunc(d, f)
}
