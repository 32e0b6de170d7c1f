package duplicates

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/spf13/afero"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// ChunkSize is the read size used while hashing file content.
const ChunkSize = 8 * 1024

// Algorithm names a content digest.
type Algorithm string

const (
	SHA256     Algorithm = "sha256"
	SHA512     Algorithm = "sha512"
	SHA3_256   Algorithm = "sha3-256" //nolint:revive,stylecheck // Mirrors the algorithm name
	BLAKE2b256 Algorithm = "blake2b-256"
)

// DefaultAlgorithm is used when none is configured.
const DefaultAlgorithm = SHA256

// Algorithms lists the supported digest names.
func Algorithms() []string {
	return []string{string(SHA256), string(SHA512), string(SHA3_256), string(BLAKE2b256)}
}

// ParseAlgorithm validates a digest name. The empty string selects DefaultAlgorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch algo := Algorithm(name); algo {
	case "":
		return DefaultAlgorithm, nil
	case SHA256, SHA512, SHA3_256, BLAKE2b256:
		return algo, nil
	default:
		return "", fmt.Errorf("unknown hash algorithm %q: must be one of %v", name, Algorithms())
	}
}

// New returns a fresh hash state for the algorithm.
func (a Algorithm) New() (hash.Hash, error) {
	switch a {
	case SHA256, "":
		return sha256.New(), nil
	case SHA512:
		return sha512.New(), nil
	case SHA3_256:
		return sha3.New256(), nil
	case BLAKE2b256:
		return blake2b.New256(nil)
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q", string(a))
	}
}

// digestFile hashes the full content of path, reading len(buf) bytes at a time.
func digestFile(fsys afero.Fs, path string, algo Algorithm, buf []byte) (string, error) {
	h, err := algo.New()
	if err != nil {
		return "", err
	}

	file, err := fsys.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %q: %w", path, err)
	}
	defer file.Close()

	for {
		n, err := file.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("reading %q: %w", path, err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
