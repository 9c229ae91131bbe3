package storage

import (
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/adfharrison1/go-docstore/pkg/indexing"
)

// StorageEngine is the in-memory document database behind the query
// evaluator: collections of documents, named indexes over them, and optional
// snapshot persistence.
type StorageEngine struct {
	mu          sync.RWMutex
	collections map[string]*Collection
	indexEngine *indexing.IndexEngine
	dirty       bool

	// Configuration
	dataFile       string
	backgroundSave bool
	saveInterval   time.Duration
	logger         zerolog.Logger
	clock          func() time.Time

	// Background workers
	backgroundWg sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

// NewStorageEngine creates a new storage engine
func NewStorageEngine(options ...StorageOption) *StorageEngine {
	engine := &StorageEngine{
		collections:  make(map[string]*Collection),
		indexEngine:  indexing.NewIndexEngine(),
		saveInterval: 5 * time.Minute,
		logger:       zerolog.Nop(),
		clock:        time.Now,
		stopChan:     make(chan struct{}),
	}

	for _, option := range options {
		option(engine)
	}

	return engine
}

// now returns the timestamp stamped on writes, in unix microseconds
func (se *StorageEngine) now() int64 {
	return se.clock().UnixMicro()
}

// nextID allocates the next document id of a collection. Caller holds se.mu.
func (se *StorageEngine) nextID(collection *Collection) string {
	collection.NextID++
	return strconv.FormatInt(collection.NextID, 10)
}

// markDirty flags unsaved changes. Caller holds se.mu.
func (se *StorageEngine) markDirty() {
	se.dirty = true
}

// IsDirty reports whether there are changes not yet written to the data file
func (se *StorageEngine) IsDirty() bool {
	se.mu.RLock()
	defer se.mu.RUnlock()
	return se.dirty
}

// DataFile returns the snapshot file path, empty when persistence is off
func (se *StorageEngine) DataFile() string {
	return se.dataFile
}
