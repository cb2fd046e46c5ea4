package service

import (
	"context"
	"fmt"
	"math"

	"github.com/zutoData/pindata-sub001/pkg/api"
	"github.com/zutoData/pindata-sub001/pkg/contract"
	"github.com/zutoData/pindata-sub001/pkg/store"
)

const defaultPageSize = 20

// ListVersionFiles pages through the files of one version.
func (s *VersioningService) ListVersionFiles(versionID string, query *api.ListFilesQuery) (*api.FileListResponse, *contract.Error) {
	page, cErr := s.store.ListVersionFiles(versionID, query)
	if cErr != nil {
		return nil, cErr
	}
	return fileListResponse(page, query), nil
}

// ListDatasetFiles is the reuse-picker listing: every file across the
// dataset's versions, optionally excluding one version, with per-type counts.
func (s *VersioningService) ListDatasetFiles(datasetID string, query *api.ListFilesQuery) (*api.FileListResponse, *contract.Error) {
	page, cErr := s.store.ListDatasetFiles(datasetID, query)
	if cErr != nil {
		return nil, cErr
	}
	return fileListResponse(page, query), nil
}

// AttachExistingFile adds an existing file of the same dataset to a version
// by reference. No content is copied; the blob must still be resolvable.
func (s *VersioningService) AttachExistingFile(ctx context.Context, versionID string, input *api.AttachFileRequest) (*api.DatasetFile, *contract.Error) {
	version, cErr := s.store.GetVersion(versionID)
	if cErr != nil {
		return nil, cErr
	}

	files, cErr := s.store.GetFilesForReuse(version.DatasetID, []string{input.ExistingFileID})
	if cErr != nil {
		return nil, cErr
	}
	file := files[0]

	if cErr := s.verifyContent(ctx, file); cErr != nil {
		return nil, cErr
	}

	return s.store.AttachFile(versionID, specFromFile(file))
}

// BatchFileOp applies a batch mutation to a version's files. Delete is the
// only supported operation.
func (s *VersioningService) BatchFileOp(versionID string, input *api.BatchFileOpRequest) (*api.BatchFileOpResponse, *contract.Error) {
	switch input.Op {
	case "delete":
		affected, cErr := s.store.DeleteVersionFiles(versionID, input.FileIDs)
		if cErr != nil {
			return nil, cErr
		}
		return &api.BatchFileOpResponse{Affected: affected}, nil
	default:
		return nil, contract.NewError(
			contract.ErrorCodeInvalidParameterValue,
			fmt.Sprintf("Unsupported batch operation %q", input.Op),
		)
	}
}

func fileListResponse(page *store.FilePage, query *api.ListFilesQuery) *api.FileListResponse {
	pageNum := query.Page
	if pageNum < 1 {
		pageNum = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	totalPages := 0
	if page.Total > 0 {
		totalPages = int(math.Ceil(float64(page.Total) / float64(pageSize)))
	}

	return &api.FileListResponse{
		Files: page.Files,
		Pagination: api.Pagination{
			Page:       pageNum,
			PageSize:   pageSize,
			Total:      page.Total,
			TotalPages: totalPages,
		},
		TypeCounts: page.TypeCounts,
	}
}
