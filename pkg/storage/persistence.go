package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/adfharrison1/go-docstore/pkg/domain"
	"github.com/adfharrison1/go-docstore/pkg/indexing"
)

// SaveToFile writes a snapshot of every collection and index definition
func (se *StorageEngine) SaveToFile(filename string) error {
	se.mu.Lock()
	defer se.mu.Unlock()

	storageData := NewStorageData()
	for collName, collection := range se.collections {
		record := CollectionRecord{
			TS:        collection.TS,
			NextID:    collection.NextID,
			Documents: make(map[string]DocumentRecord, len(collection.Documents)),
		}
		for docID, doc := range collection.Documents {
			record.Documents[docID] = DocumentRecord{TS: doc.TS, Data: doc.Data}
		}
		storageData.Collections[collName] = record
	}
	storageData.Indexes = se.indexEngine.ExportIndexes()

	msgpackData, err := msgpack.Marshal(storageData)
	if err != nil {
		return fmt.Errorf("failed to encode MessagePack: %w", err)
	}

	body := msgpackData
	flags := uint8(0)
	compressedData := make([]byte, lz4.CompressBlockBound(len(msgpackData)))
	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(msgpackData, compressedData, hashTable[:])
	if err != nil {
		return fmt.Errorf("failed to compress data: %w", err)
	}
	// n == 0 means the data was incompressible
	if n > 0 {
		body = compressedData[:n]
		flags = FlagCompressed
	}

	var buf bytes.Buffer
	if err := WriteHeader(&buf, flags, uint32(len(msgpackData))); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	buf.Write(body)

	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	tmp := filename + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, filename); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}

	se.dirty = false
	se.logger.Info().
		Str("file", filename).
		Int("collections", len(storageData.Collections)).
		Int("indexes", len(storageData.Indexes)).
		Msg("snapshot saved")
	return nil
}

// LoadFromFile replaces the engine's state with a snapshot. A missing file is
// not an error: the engine simply starts empty.
func (se *StorageEngine) LoadFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	header, err := ReadHeader(file)
	if err != nil {
		return fmt.Errorf("invalid file header: %w", err)
	}
	body, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}

	if header.Flags&FlagCompressed != 0 {
		decompressedData := make([]byte, header.Length)
		n, err := lz4.UncompressBlock(body, decompressedData)
		if err != nil {
			return fmt.Errorf("failed to decompress data: %w", err)
		}
		body = decompressedData[:n]
	}

	var storageData StorageData
	if err := msgpack.Unmarshal(body, &storageData); err != nil {
		return fmt.Errorf("failed to decode MessagePack: %w", err)
	}

	collections := make(map[string]*Collection, len(storageData.Collections))
	for collName, record := range storageData.Collections {
		collection := NewCollection(collName, record.TS)
		collection.NextID = record.NextID
		for docID, docRecord := range record.Documents {
			data := docRecord.Data
			if data == nil {
				data = make(map[string]interface{})
			}
			collection.Documents[docID] = &domain.Document{
				Ref:  domain.DocumentRef(collName, docID),
				TS:   docRecord.TS,
				Data: data,
			}
		}
		collections[collName] = collection
	}

	indexEngine := indexing.NewIndexEngine()
	indexEngine.ImportIndexes(storageData.Indexes)
	for name, record := range storageData.Indexes {
		index, _ := indexEngine.GetIndex(name)
		collection, exists := collections[record.Source]
		if !exists {
			se.logger.Warn().Str("index", name).Str("collection", record.Source).Msg("dropping index without source collection")
			indexEngine.DropIndex(name)
			continue
		}
		if err := indexEngine.BuildIndex(index, collection.Documents); err != nil {
			return fmt.Errorf("failed to rebuild index %s: %w", name, err)
		}
	}

	se.mu.Lock()
	defer se.mu.Unlock()
	se.collections = collections
	se.indexEngine = indexEngine
	se.dirty = false

	se.logger.Info().
		Str("file", filename).
		Int("collections", len(collections)).
		Int("indexes", len(storageData.Indexes)).
		Msg("snapshot loaded")
	return nil
}
