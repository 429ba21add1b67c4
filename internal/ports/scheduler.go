package ports

import "time"

// Task is a pending scheduled callback. *time.Timer satisfies it.
type Task interface {
	Stop() bool
}

type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}
