package scheduler

import "time"

type Scheduler interface {
	Start() error
	Stop()
}

const (
	IntervalEnrich = 200 * time.Millisecond
	IntervalMinute = 1 * time.Minute
)
