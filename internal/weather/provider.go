package weather

import (
	"context"
	"time"
)

// Window selects which rolling download the station publishes.
type Window int

const (
	WindowTwoDays   Window = 2
	WindowEightDays Window = 8
)

// WindowFor picks the smallest download that covers lookback past days.
func WindowFor(lookback int) Window {
	if lookback <= 1 {
		return WindowTwoDays
	}
	return WindowEightDays
}

// Source abstracts the station endpoint that serves raw downloads.
type Source interface {
	Name() string
	Fetch(ctx context.Context, w Window) ([]byte, error)
}

// Store is the contract the in-memory and SQLite stores satisfy.
type Store interface {
	SaveReadings(ctx context.Context, readings []Reading) error
	GetLatest(ctx context.Context) (Reading, error)
	GetRange(ctx context.Context, from, to time.Time) ([]Reading, error)
}

// Publisher pushes a freshly computed dashboard to subscribers.
type Publisher interface {
	PublishDashboard(ctx context.Context, d Dashboard) error
}
