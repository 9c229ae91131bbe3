package storage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, FlagCompressed, 1234))
	assert.Equal(t, MagicBytes, buf.String()[:4])

	header, err := ReadHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint8(FormatVersion), header.Version)
	assert.Equal(t, FlagCompressed, header.Flags)
	assert.Equal(t, uint32(1234), header.Length)
}

func TestReadHeader_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "too short", data: []byte("GO")},
		{name: "wrong magic", data: []byte{'N', 'O', 'P', 'E', FormatVersion, 0, 0, 0, 0, 0, 0, 0}},
		{name: "wrong version", data: []byte{'G', 'O', 'D', 'S', 9, 0, 0, 0, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadHeader(bytes.NewReader(tt.data))
			assert.Error(t, err)
		})
	}
}
