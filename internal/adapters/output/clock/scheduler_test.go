package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_Fires(t *testing.T) {
	done := make(chan struct{})
	Scheduler{}.AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not fire")
	}
}

func TestScheduler_Stop(t *testing.T) {
	fired := make(chan struct{}, 1)
	task := Scheduler{}.AfterFunc(50*time.Millisecond, func() { fired <- struct{}{} })

	assert.True(t, task.Stop())

	select {
	case <-fired:
		t.Fatal("stopped task fired")
	case <-time.After(100 * time.Millisecond):
	}
}
