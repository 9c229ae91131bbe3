package storage

import (
	"runtime"
	"time"
)

// GetMemoryStats returns current memory usage statistics
func (se *StorageEngine) GetMemoryStats() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	se.mu.RLock()
	defer se.mu.RUnlock()

	documents := 0
	for _, collection := range se.collections {
		documents += len(collection.Documents)
	}

	return map[string]interface{}{
		"alloc_mb":       m.Alloc / 1024 / 1024,
		"sys_mb":         m.Sys / 1024 / 1024,
		"num_goroutines": runtime.NumGoroutine(),
		"collections":    len(se.collections),
		"documents":      documents,
	}
}

// StartBackgroundWorkers starts the periodic snapshot worker
func (se *StorageEngine) StartBackgroundWorkers() {
	if !se.backgroundSave || se.dataFile == "" {
		return
	}

	se.backgroundWg.Add(1)
	go func() {
		defer se.backgroundWg.Done()
		ticker := time.NewTicker(se.saveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				se.saveIfDirty()
			case <-se.stopChan:
				return
			}
		}
	}()
}

// StopBackgroundWorkers stops background workers
func (se *StorageEngine) StopBackgroundWorkers() {
	se.stopOnce.Do(func() {
		close(se.stopChan)
	})
	se.backgroundWg.Wait()
}

func (se *StorageEngine) saveIfDirty() {
	if !se.IsDirty() {
		return
	}
	start := time.Now()
	if err := se.SaveToFile(se.dataFile); err != nil {
		se.logger.Error().Err(err).Str("file", se.dataFile).Msg("background save failed")
		return
	}
	se.logger.Debug().Dur("elapsed", time.Since(start)).Msg("background save completed")
}
