package storage

import (
	"time"

	"github.com/rs/zerolog"
)

type StorageOption func(*StorageEngine)

// WithDataFile sets the snapshot file used by Load, Save and background saves
func WithDataFile(path string) StorageOption {
	return func(engine *StorageEngine) {
		engine.dataFile = path
	}
}

// WithBackgroundSave writes dirty state to the data file every interval
func WithBackgroundSave(interval time.Duration) StorageOption {
	return func(engine *StorageEngine) {
		engine.backgroundSave = interval > 0
		engine.saveInterval = interval
	}
}

func WithLogger(logger zerolog.Logger) StorageOption {
	return func(engine *StorageEngine) {
		engine.logger = logger
	}
}

// WithClock overrides the time source used for write timestamps
func WithClock(clock func() time.Time) StorageOption {
	return func(engine *StorageEngine) {
		engine.clock = clock
	}
}
