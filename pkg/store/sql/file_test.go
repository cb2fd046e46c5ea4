package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zutoData/pindata-sub001/pkg/api"
	"github.com/zutoData/pindata-sub001/pkg/contract"
	"github.com/zutoData/pindata-sub001/pkg/store"
)

func TestAttachFileRecomputesAggregates(t *testing.T) {
	s := newTestStore(t)
	dataset := mustCreateDataset(t, s, "demo")

	version, cErr := s.CreateVersion(dataset.ID, createRequest("v1"), []store.FileSpec{
		fileSpec("a.txt", "hash1", 100),
	})
	require.Nil(t, cErr)

	attached, cErr := s.AttachFile(version.ID, fileSpec("b.txt", "hash2", 50))
	require.Nil(t, cErr)
	assert.Equal(t, version.ID, attached.VersionID)
	assert.Equal(t, "hash2", attached.Checksum)

	updated, cErr := s.GetVersion(version.ID)
	require.Nil(t, cErr)
	assert.Equal(t, 2, updated.FileCount)
	assert.Equal(t, int64(150), updated.TotalSize)
	assert.NotEqual(t, version.CommitHash, updated.CommitHash)
	assert.NotEqual(t, version.DataChecksum, updated.DataChecksum)
}

func TestDeleteVersionFilesRecomputesAggregates(t *testing.T) {
	s := newTestStore(t)
	dataset := mustCreateDataset(t, s, "demo")

	version, cErr := s.CreateVersion(dataset.ID, createRequest("v1"), []store.FileSpec{
		fileSpec("a.txt", "hash1", 100),
		fileSpec("b.txt", "hash2", 50),
	})
	require.Nil(t, cErr)

	full, cErr := s.GetVersion(version.ID)
	require.Nil(t, cErr)

	var deleteID string
	for _, file := range full.Files {
		if file.Filename == "b.txt" {
			deleteID = file.ID
		}
	}
	require.NotEmpty(t, deleteID)

	affected, cErr := s.DeleteVersionFiles(version.ID, []string{deleteID})
	require.Nil(t, cErr)
	assert.Equal(t, 1, affected)

	updated, cErr := s.GetVersion(version.ID)
	require.Nil(t, cErr)
	assert.Equal(t, 1, updated.FileCount)
	assert.Equal(t, int64(100), updated.TotalSize)
	require.Len(t, updated.Files, 1)
	assert.Equal(t, "a.txt", updated.Files[0].Filename)
}

func TestDeleteVersionFilesIgnoresForeignRows(t *testing.T) {
	s := newTestStore(t)
	dataset := mustCreateDataset(t, s, "demo")

	v1, cErr := s.CreateVersion(dataset.ID, createRequest("v1"), []store.FileSpec{
		fileSpec("a.txt", "hash1", 10),
	})
	require.Nil(t, cErr)
	v2, cErr := s.CreateVersion(dataset.ID, createRequest("v2"), []store.FileSpec{
		fileSpec("b.txt", "hash2", 20),
	})
	require.Nil(t, cErr)

	v2Full, cErr := s.GetVersion(v2.ID)
	require.Nil(t, cErr)

	// Deleting v2's file through v1 must not touch it.
	affected, cErr := s.DeleteVersionFiles(v1.ID, []string{v2Full.Files[0].ID})
	require.Nil(t, cErr)
	assert.Equal(t, 0, affected)

	intact, cErr := s.GetVersion(v2.ID)
	require.Nil(t, cErr)
	assert.Equal(t, 1, intact.FileCount)
}

func TestGetFilesForReuseRejectsForeignDataset(t *testing.T) {
	s := newTestStore(t)
	dataset := mustCreateDataset(t, s, "demo")
	other := mustCreateDataset(t, s, "other")

	version, cErr := s.CreateVersion(other.ID, createRequest("v1"), []store.FileSpec{
		fileSpec("a.txt", "hash1", 10),
	})
	require.Nil(t, cErr)

	full, cErr := s.GetVersion(version.ID)
	require.Nil(t, cErr)

	_, cErr = s.GetFilesForReuse(dataset.ID, []string{full.Files[0].ID})
	require.NotNil(t, cErr)
	assert.Equal(t, contract.ErrorCodeFileNotFound, cErr.Code)

	// Same dataset resolves fine.
	files, cErr := s.GetFilesForReuse(other.ID, []string{full.Files[0].ID})
	require.Nil(t, cErr)
	require.Len(t, files, 1)
	assert.Equal(t, "a.txt", files[0].Filename)
}

func TestListVersionFilesFilterAndPagination(t *testing.T) {
	s := newTestStore(t)
	dataset := mustCreateDataset(t, s, "demo")

	specs := []store.FileSpec{
		fileSpec("one.txt", "hash1", 1),
		fileSpec("two.txt", "hash2", 2),
		fileSpec("three.txt", "hash3", 3),
	}
	specs[2].FileType = "image"

	version, cErr := s.CreateVersion(dataset.ID, createRequest("v1"), specs)
	require.Nil(t, cErr)

	page, cErr := s.ListVersionFiles(version.ID, &api.ListFilesQuery{FileType: "text"})
	require.Nil(t, cErr)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Files, 2)

	page, cErr = s.ListVersionFiles(version.ID, &api.ListFilesQuery{Search: "THREE"})
	require.Nil(t, cErr)
	require.Len(t, page.Files, 1)
	assert.Equal(t, "three.txt", page.Files[0].Filename)

	// Pagination is deterministic even with identical created_at values:
	// walking page by page visits each file exactly once.
	seen := make(map[string]struct{})
	for pageNum := 1; pageNum <= 3; pageNum++ {
		page, cErr = s.ListVersionFiles(version.ID, &api.ListFilesQuery{Page: pageNum, PageSize: 1})
		require.Nil(t, cErr)
		require.Len(t, page.Files, 1)
		seen[page.Files[0].ID] = struct{}{}
	}
	assert.Len(t, seen, 3)
}

func TestListVersionFilesUnknownVersion(t *testing.T) {
	s := newTestStore(t)

	_, cErr := s.ListVersionFiles("33333333-0000-0000-0000-000000000000", &api.ListFilesQuery{})
	require.NotNil(t, cErr)
	assert.Equal(t, contract.ErrorCodeResourceDoesNotExist, cErr.Code)
}

func TestListDatasetFilesAcrossVersions(t *testing.T) {
	s := newTestStore(t)
	dataset := mustCreateDataset(t, s, "demo")

	v1, cErr := s.CreateVersion(dataset.ID, createRequest("v1"), []store.FileSpec{
		fileSpec("a.txt", "hash1", 1),
		{Filename: "img.png", FileType: "image", FileSize: 2, Checksum: "hash2", StorageKey: "hash2"},
	})
	require.Nil(t, cErr)
	v2, cErr := s.CreateVersion(dataset.ID, createRequest("v2"), []store.FileSpec{
		fileSpec("b.txt", "hash3", 3),
	})
	require.Nil(t, cErr)

	page, cErr := s.ListDatasetFiles(dataset.ID, &api.ListFilesQuery{})
	require.Nil(t, cErr)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, int64(2), page.TypeCounts["text"])
	assert.Equal(t, int64(1), page.TypeCounts["image"])

	// The reuse picker excludes the version being edited.
	page, cErr = s.ListDatasetFiles(dataset.ID, &api.ListFilesQuery{ExcludeVersionID: v2.ID})
	require.Nil(t, cErr)
	assert.Equal(t, int64(2), page.Total)
	for _, file := range page.Files {
		assert.Equal(t, v1.ID, file.VersionID)
	}
}

func TestFilterUnreferenced(t *testing.T) {
	s := newTestStore(t)
	dataset := mustCreateDataset(t, s, "demo")

	_, cErr := s.CreateVersion(dataset.ID, createRequest("v1"), []store.FileSpec{
		fileSpec("a.txt", "hash1", 1),
	})
	require.Nil(t, cErr)

	unreferenced, cErr := s.FilterUnreferenced([]string{"hash1", "orphan1", "orphan2"})
	require.Nil(t, cErr)
	assert.ElementsMatch(t, []string{"orphan1", "orphan2"}, unreferenced)

	unreferenced, cErr = s.FilterUnreferenced(nil)
	require.Nil(t, cErr)
	assert.Empty(t, unreferenced)
}
