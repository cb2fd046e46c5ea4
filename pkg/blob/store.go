// Package blob implements the content-addressed store backing dataset files.
// Blobs are keyed by the SHA-256 of their content, written once, and never
// mutated; identical content uploaded from any dataset lands on the same key.
package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrNotFound is returned by Get when no blob exists under the checksum.
var ErrNotFound = errors.New("blob not found")

type Store interface {
	// Put stores the content under its checksum and returns the checksum.
	// Storing content that is already present is a no-op.
	Put(ctx context.Context, data []byte) (string, error)

	// Get returns the content stored under checksum, or ErrNotFound.
	Get(ctx context.Context, checksum string) ([]byte, error)

	Exists(ctx context.Context, checksum string) (bool, error)

	// Delete removes the blob if present. Callers are responsible for
	// ensuring no live references remain.
	Delete(ctx context.Context, checksum string) error
}

// Lister is implemented by stores that can enumerate their blobs. The sweep
// operation requires it.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}

// Checksum computes the content address of data.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Key is the sharded storage locator of a checksum: ab/cd/abcd... Both
// implementations lay blobs out this way.
func Key(checksum string) string {
	return checksum[:2] + "/" + checksum[2:4] + "/" + checksum
}

// NewStoreFromURL builds a store from a location URL. Supported schemes are
// "file" (or a bare path) and "s3" (s3://bucket/prefix).
func NewStoreFromURL(ctx context.Context, rawURL string) (Store, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid blob store url %q: %w", rawURL, err)
	}

	switch u.Scheme {
	case "", "file":
		// file:///var/blobs is absolute, file://./blobs relative; for a
		// relative location the leading segment parses as the URL host.
		path := u.Host + u.Path
		if u.Scheme == "" {
			path = rawURL
		}
		return NewFilesystemStore(path)
	case "s3":
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client := s3.NewFromConfig(cfg)
		return NewS3Store(client, u.Host, strings.TrimPrefix(u.Path, "/")), nil
	default:
		return nil, fmt.Errorf("unsupported blob store scheme %q", u.Scheme)
	}
}
