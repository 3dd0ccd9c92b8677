package services

import (
	"time"

	"github.com/wadjakorntonsri/linklet-dashboard/pkg/ports"
)

// SystemClock is the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) AfterFunc(d time.Duration, f func()) ports.Timer {
	return time.AfterFunc(d, f)
}
