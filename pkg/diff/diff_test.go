package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDisjointAndOverlapping(t *testing.T) {
	v1 := []Entry{
		{Filename: "a.txt", Checksum: "hash1"},
		{Filename: "b.txt", Checksum: "hash2"},
	}
	v3 := []Entry{
		{Filename: "a.txt", Checksum: "hash1"},
		{Filename: "c.txt", Checksum: "hash3"},
	}

	result := Compute(v1, v3)

	require.Len(t, result.Added, 1)
	assert.Equal(t, "c.txt", result.Added[0].Filename)
	require.Len(t, result.Removed, 1)
	assert.Equal(t, "b.txt", result.Removed[0].Filename)
	assert.Empty(t, result.Modified)
	assert.Equal(t, Stats{Added: 1, Removed: 1, Modified: 0}, result.Stats)
}

func TestComputeModified(t *testing.T) {
	v1 := []Entry{{Filename: "a.txt", Checksum: "hash1"}}
	v2 := []Entry{{Filename: "a.txt", Checksum: "hash1b"}}

	result := Compute(v1, v2)

	assert.Empty(t, result.Added)
	assert.Empty(t, result.Removed)
	require.Len(t, result.Modified, 1)
	assert.Equal(t, "hash1", result.Modified[0].OldChecksum)
	assert.Equal(t, "hash1b", result.Modified[0].NewChecksum)
}

func TestComputeIdenticalSnapshotsAreEmpty(t *testing.T) {
	files := []Entry{
		{Filename: "a.txt", Checksum: "hash1"},
		{Filename: "b.txt", Checksum: "hash2"},
	}

	result := Compute(files, files)

	assert.Empty(t, result.Added)
	assert.Empty(t, result.Removed)
	assert.Empty(t, result.Modified)
	assert.Equal(t, Stats{}, result.Stats)
}

func TestComputeSymmetry(t *testing.T) {
	v1 := []Entry{
		{Filename: "a.txt", Checksum: "hash1"},
		{Filename: "b.txt", Checksum: "hash2"},
		{Filename: "shared.csv", Checksum: "old"},
	}
	v2 := []Entry{
		{Filename: "b.txt", Checksum: "hash2"},
		{Filename: "c.txt", Checksum: "hash3"},
		{Filename: "shared.csv", Checksum: "new"},
	}

	forward := Compute(v1, v2)
	backward := Compute(v2, v1)

	assert.Equal(t, forward.Stats.Added, backward.Stats.Removed)
	assert.Equal(t, forward.Stats.Removed, backward.Stats.Added)
	assert.Equal(t, forward.Stats.Modified, backward.Stats.Modified)

	assert.ElementsMatch(t, forward.Added, backward.Removed)
	assert.ElementsMatch(t, forward.Removed, backward.Added)

	require.Len(t, backward.Modified, 1)
	assert.Equal(t, forward.Modified[0].OldChecksum, backward.Modified[0].NewChecksum)
	assert.Equal(t, forward.Modified[0].NewChecksum, backward.Modified[0].OldChecksum)
}

func TestComputeEmptySides(t *testing.T) {
	files := []Entry{{Filename: "a.txt", Checksum: "hash1"}}

	result := Compute(nil, files)
	assert.Equal(t, Stats{Added: 1}, result.Stats)

	result = Compute(files, nil)
	assert.Equal(t, Stats{Removed: 1}, result.Stats)

	result = Compute(nil, nil)
	assert.Equal(t, Stats{}, result.Stats)
	assert.NotNil(t, result.Added)
	assert.NotNil(t, result.Removed)
	assert.NotNil(t, result.Modified)
}
