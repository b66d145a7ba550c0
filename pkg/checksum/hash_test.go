package checksum

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

func TestHashReader(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		chunkSize int
	}{
		{name: "empty input", input: "", chunkSize: 4096},
		{name: "smaller than chunk", input: "hello", chunkSize: 4096},
		{name: "exactly one chunk", input: strings.Repeat("a", 8), chunkSize: 8},
		{name: "multiple chunks", input: strings.Repeat("preset", 1000), chunkSize: 16},
		{name: "zero chunk size falls back to default", input: "hello", chunkSize: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HashReader(strings.NewReader(tt.input), tt.chunkSize)
			if err != nil {
				t.Fatalf("HashReader() error = %v", err)
			}

			sum := sha256.Sum256([]byte(tt.input))
			want := hex.EncodeToString(sum[:])
			if got != want {
				t.Errorf("HashReader() = %s, want %s", got, want)
			}
		})
	}
}

func TestHashReader_ChunkSizeInvariance(t *testing.T) {
	input := strings.Repeat("midi", 5000)

	a, err := HashReader(strings.NewReader(input), 7)
	if err != nil {
		t.Fatalf("HashReader() error = %v", err)
	}
	b, err := HashReader(strings.NewReader(input), 4096)
	if err != nil {
		t.Fatalf("HashReader() error = %v", err)
	}

	if a != b {
		t.Errorf("digest depends on chunk size: %s != %s", a, b)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk unplugged")
}

func TestHashReader_ReadError(t *testing.T) {
	if _, err := HashReader(failingReader{}, 4096); err == nil {
		t.Error("HashReader() expected error for failing reader")
	}
}

func TestHashContent(t *testing.T) {
	content := []byte(`{"device_info": {}}`)

	got := HashContent(content)
	if len(got) != 64 {
		t.Errorf("HashContent() returned %d hex chars, want 64", len(got))
	}
	if got != strings.ToLower(got) {
		t.Errorf("HashContent() digest not lowercase: %s", got)
	}

	streamed, err := HashReader(bytes.NewReader(content), 2)
	if err != nil {
		t.Fatalf("HashReader() error = %v", err)
	}
	if got != streamed {
		t.Errorf("HashContent() = %s, HashReader() = %s", got, streamed)
	}
}

func TestHashString(t *testing.T) {
	if HashString("abc") != HashContent([]byte("abc")) {
		t.Error("HashString() diverges from HashContent()")
	}
}
