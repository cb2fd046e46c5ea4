package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func files(pairs ...[2]string) []DatasetFile {
	out := make([]DatasetFile, 0, len(pairs))
	for _, pair := range pairs {
		out = append(out, DatasetFile{Filename: pair[0], Checksum: pair[1], FileSize: 1})
	}
	return out
}

func TestCommitHashIsOrderIndependent(t *testing.T) {
	forward := files([2]string{"a.txt", "hash1"}, [2]string{"b.txt", "hash2"})
	backward := files([2]string{"b.txt", "hash2"}, [2]string{"a.txt", "hash1"})

	assert.Equal(t,
		CommitHash(forward, "msg", "author"),
		CommitHash(backward, "msg", "author"),
	)
}

func TestCommitHashCoversMetadataAndContent(t *testing.T) {
	members := files([2]string{"a.txt", "hash1"})

	base := CommitHash(members, "msg", "author")

	assert.NotEqual(t, base, CommitHash(members, "other msg", "author"))
	assert.NotEqual(t, base, CommitHash(members, "msg", "other author"))
	assert.NotEqual(t, base, CommitHash(files([2]string{"a.txt", "hash2"}), "msg", "author"))
	assert.NotEqual(t, base, CommitHash(files([2]string{"b.txt", "hash1"}), "msg", "author"))
}

func TestDataChecksumIgnoresFilenamesAndOrder(t *testing.T) {
	first := files([2]string{"a.txt", "hash1"}, [2]string{"b.txt", "hash2"})
	second := files([2]string{"renamed.txt", "hash2"}, [2]string{"other.txt", "hash1"})

	assert.Equal(t, DataChecksum(first), DataChecksum(second))
	assert.NotEqual(t, DataChecksum(first), DataChecksum(files([2]string{"a.txt", "hash3"})))
}

func TestTotalSize(t *testing.T) {
	members := []DatasetFile{{FileSize: 100}, {FileSize: 250}}
	assert.Equal(t, int64(350), TotalSize(members))
	assert.Equal(t, int64(0), TotalSize(nil))
}
