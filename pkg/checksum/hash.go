package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

const (
	// DefaultChunkSize is the read size used when streaming a file
	// through the hash. Memory use stays bounded by the chunk size
	// regardless of input size.
	DefaultChunkSize = 4096
)

// HashReader computes the SHA-256 digest of everything readable from r,
// consuming it in chunkSize reads, and returns the digest as 64
// lowercase hex characters. If chunkSize is not positive,
// DefaultChunkSize is used.
//
// The digest computation itself cannot fail; the only error source is
// the reader.
func HashReader(r io.Reader, chunkSize int) (string, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	h := sha256.New()
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			// Hash.Write never returns an error.
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read stream: %w", err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashContent computes the SHA-256 digest of content and returns it as
// a hex-encoded string.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// HashString is a convenience function that hashes a string and returns
// the hex-encoded SHA-256 digest.
func HashString(content string) string {
	return HashContent([]byte(content))
}
