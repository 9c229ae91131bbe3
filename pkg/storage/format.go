package storage

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/adfharrison1/go-docstore/pkg/indexing"
)

const (
	// Magic bytes to identify our file format
	MagicBytes = "GODS"
	// Current version
	FormatVersion = 1
	// File extension for snapshot files
	FileExtension = ".gods"

	// FlagCompressed marks a body stored as an lz4 block
	FlagCompressed uint8 = 1 << 0
)

// FileHeader represents the header of a snapshot file
type FileHeader struct {
	Magic    [4]byte // "GODS"
	Version  uint8   // Format version
	Flags    uint8   // FlagCompressed
	Reserved [2]byte // Reserved for future use
	Length   uint32  // Uncompressed body length
}

// WriteHeader writes the file header to the given writer
func WriteHeader(w io.Writer, flags uint8, length uint32) error {
	header := FileHeader{
		Magic:   [4]byte{'G', 'O', 'D', 'S'},
		Version: FormatVersion,
		Flags:   flags,
		Length:  length,
	}

	return binary.Write(w, binary.LittleEndian, header)
}

// ReadHeader reads and validates the file header
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Validate magic bytes
	if string(header.Magic[:]) != MagicBytes {
		return nil, fmt.Errorf("invalid file format: expected %s, got %s", MagicBytes, string(header.Magic[:]))
	}

	// Validate version
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported file version: %d", header.Version)
	}

	return &header, nil
}

// StorageData represents the actual data structure we store
type StorageData struct {
	Collections map[string]CollectionRecord     `msgpack:"collections"`
	Indexes     map[string]indexing.IndexRecord `msgpack:"indexes,omitempty"`
}

// CollectionRecord is the persisted form of a collection
type CollectionRecord struct {
	TS        int64                     `msgpack:"ts"`
	NextID    int64                     `msgpack:"next_id"`
	Documents map[string]DocumentRecord `msgpack:"documents"`
}

// DocumentRecord is the persisted form of a document
type DocumentRecord struct {
	TS   int64                  `msgpack:"ts"`
	Data map[string]interface{} `msgpack:"data"`
}

// NewStorageData creates a new empty storage data structure
func NewStorageData() *StorageData {
	return &StorageData{
		Collections: make(map[string]CollectionRecord),
		Indexes:     make(map[string]indexing.IndexRecord),
	}
}
