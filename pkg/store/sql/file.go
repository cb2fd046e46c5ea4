package sql

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zutoData/pindata-sub001/pkg/api"
	"github.com/zutoData/pindata-sub001/pkg/contract"
	"github.com/zutoData/pindata-sub001/pkg/store"
	"github.com/zutoData/pindata-sub001/pkg/store/sql/model"
)

func (s *Store) GetFilesForReuse(datasetID string, fileIDs []string) ([]*api.DatasetFile, *contract.Error) {
	if len(fileIDs) == 0 {
		return nil, nil
	}

	var files []model.DatasetFile
	err := s.db.
		Joins("JOIN versions ON versions.id = dataset_files.version_id").
		Where("versions.dataset_id = ?", datasetID).
		Where("dataset_files.id IN ?", fileIDs).
		Find(&files).Error
	if err != nil {
		return nil, contract.NewErrorWith(contract.ErrorCodeInternalError, "failed to resolve existing files", err)
	}

	if len(files) != len(fileIDs) {
		found := make(map[string]struct{}, len(files))
		for i := range files {
			found[files[i].ID] = struct{}{}
		}

		missing := make([]string, 0)
		for _, id := range fileIDs {
			if _, ok := found[id]; !ok {
				missing = append(missing, id)
			}
		}

		return nil, contract.NewError(
			contract.ErrorCodeFileNotFound,
			fmt.Sprintf("Files do not belong to dataset %s: %s", datasetID, strings.Join(missing, ", ")),
		)
	}

	out := make([]*api.DatasetFile, 0, len(files))
	for i := range files {
		out = append(out, files[i].ToAPI())
	}
	return out, nil
}

func (s *Store) AttachFile(versionID string, spec store.FileSpec) (*api.DatasetFile, *contract.Error) {
	now := time.Now().UTC()

	file := model.DatasetFile{
		ID:          uuid.NewString(),
		VersionID:   versionID,
		Filename:    spec.Filename,
		FileType:    spec.FileType,
		FileSize:    spec.FileSize,
		Checksum:    spec.Checksum,
		StorageKey:  spec.StorageKey,
		Metadata:    model.EncodeMetadata(spec.Metadata),
		Annotations: model.EncodeAnnotations(spec.Annotations),
		CreatedAt:   now,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		var version model.Version
		if err := tx.Where("id = ?", versionID).First(&version).Error; err != nil {
			return fmt.Errorf("failed to load version: %w", err)
		}
		if version.IsDeprecated {
			return errVersionLocked
		}

		if err := tx.Create(&file).Error; err != nil {
			return fmt.Errorf("failed to insert file: %w", err)
		}

		return recomputeAggregates(tx, &version)
	}); err != nil {
		return nil, mapMutationError(err, versionID, "failed to attach file")
	}

	return file.ToAPI(), nil
}

func (s *Store) DeleteVersionFiles(versionID string, fileIDs []string) (int, *contract.Error) {
	var affected int64

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		var version model.Version
		if err := tx.Where("id = ?", versionID).First(&version).Error; err != nil {
			return fmt.Errorf("failed to load version: %w", err)
		}
		if version.IsDeprecated {
			return errVersionLocked
		}

		result := tx.Where("version_id = ? AND id IN ?", versionID, fileIDs).Delete(&model.DatasetFile{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete files: %w", result.Error)
		}
		affected = result.RowsAffected

		return recomputeAggregates(tx, &version)
	}); err != nil {
		return 0, mapMutationError(err, versionID, "failed to delete files")
	}

	return int(affected), nil
}

// recomputeAggregates refreshes the derived columns of a version after its
// membership changed. Runs inside the mutating transaction.
func recomputeAggregates(tx *gorm.DB, version *model.Version) error {
	var files []model.DatasetFile
	if err := tx.Where("version_id = ?", version.ID).Find(&files).Error; err != nil {
		return fmt.Errorf("failed to reload version files: %w", err)
	}

	return tx.Model(version).Updates(map[string]interface{}{
		"file_count":    len(files),
		"total_size":    model.TotalSize(files),
		"data_checksum": model.DataChecksum(files),
		"commit_hash":   model.CommitHash(files, version.CommitMessage, version.Author),
		"updated_at":    time.Now().UTC(),
	}).Error
}

func mapMutationError(err error, versionID, message string) *contract.Error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return contract.NewError(
			contract.ErrorCodeResourceDoesNotExist,
			fmt.Sprintf("No version with id=%s exists", versionID),
		)
	case errors.Is(err, errVersionLocked):
		return contract.NewError(
			contract.ErrorCodeVersionLocked,
			fmt.Sprintf("Version %s is deprecated and rejects mutation", versionID),
		)
	}

	return contract.NewErrorWith(contract.ErrorCodeInternalError, message, err)
}

func (s *Store) ListVersionFiles(versionID string, query *api.ListFilesQuery) (*store.FilePage, *contract.Error) {
	var count int64
	if err := s.db.Model(&model.Version{}).Where("id = ?", versionID).Count(&count).Error; err != nil {
		return nil, contract.NewErrorWith(contract.ErrorCodeInternalError, "failed to check version", err)
	}
	if count == 0 {
		return nil, contract.NewError(
			contract.ErrorCodeResourceDoesNotExist,
			fmt.Sprintf("No version with id=%s exists", versionID),
		)
	}

	scope := s.db.Model(&model.DatasetFile{}).Where("dataset_files.version_id = ?", versionID)
	return s.pageFiles(scope, query, false)
}

func (s *Store) ListDatasetFiles(datasetID string, query *api.ListFilesQuery) (*store.FilePage, *contract.Error) {
	var count int64
	if err := s.db.Model(&model.Dataset{}).Where("id = ?", datasetID).Count(&count).Error; err != nil {
		return nil, contract.NewErrorWith(contract.ErrorCodeInternalError, "failed to check dataset", err)
	}
	if count == 0 {
		return nil, contract.NewError(
			contract.ErrorCodeResourceDoesNotExist,
			fmt.Sprintf("No dataset with id=%s exists", datasetID),
		)
	}

	scope := s.db.Model(&model.DatasetFile{}).
		Joins("JOIN versions ON versions.id = dataset_files.version_id").
		Where("versions.dataset_id = ?", datasetID)

	if query.ExcludeVersionID != "" {
		scope = scope.Where("dataset_files.version_id <> ?", query.ExcludeVersionID)
	}

	return s.pageFiles(scope, query, true)
}

// pageFiles applies the shared filters, pagination, and stable ordering.
// Ordering is created_at then id so pages stay deterministic even when many
// rows share one timestamp.
func (s *Store) pageFiles(scope *gorm.DB, query *api.ListFilesQuery, withTypeCounts bool) (*store.FilePage, *contract.Error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	if query.FileType != "" {
		scope = scope.Where("dataset_files.file_type = ?", query.FileType)
	}
	if query.Search != "" {
		// Case-insensitive filename match; sqlite and mysql LIKE are
		// already case-insensitive for ASCII but LOWER() keeps the
		// behavior identical across dialects.
		scope = scope.Where(
			"LOWER(dataset_files.filename) LIKE ?",
			"%"+strings.ToLower(query.Search)+"%",
		)
	}

	result := &store.FilePage{Files: []*api.DatasetFile{}}

	if withTypeCounts {
		type typeCount struct {
			FileType string
			Count    int64
		}
		var counts []typeCount
		countScope := scope.Session(&gorm.Session{})
		if err := countScope.
			Select("dataset_files.file_type AS file_type, COUNT(*) AS count").
			Group("dataset_files.file_type").
			Scan(&counts).Error; err != nil {
			return nil, contract.NewErrorWith(contract.ErrorCodeInternalError, "failed to count file types", err)
		}

		result.TypeCounts = make(map[string]int64, len(counts))
		for _, c := range counts {
			result.TypeCounts[c.FileType] = c.Count
		}
	}

	if err := scope.Session(&gorm.Session{}).Count(&result.Total).Error; err != nil {
		return nil, contract.NewErrorWith(contract.ErrorCodeInternalError, "failed to count files", err)
	}

	var files []model.DatasetFile
	err := scope.Session(&gorm.Session{}).
		Order("dataset_files.created_at").
		Order("dataset_files.id").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&files).Error
	if err != nil {
		return nil, contract.NewErrorWith(contract.ErrorCodeInternalError, "failed to list files", err)
	}

	for i := range files {
		result.Files = append(result.Files, files[i].ToAPI())
	}

	return result, nil
}

func (s *Store) FilterUnreferenced(checksums []string) ([]string, *contract.Error) {
	if len(checksums) == 0 {
		return nil, nil
	}

	var referenced []string
	err := s.db.Model(&model.DatasetFile{}).
		Distinct("checksum").
		Where("checksum IN ?", checksums).
		Pluck("checksum", &referenced).Error
	if err != nil {
		return nil, contract.NewErrorWith(contract.ErrorCodeInternalError, "failed to query references", err)
	}

	live := make(map[string]struct{}, len(referenced))
	for _, checksum := range referenced {
		live[checksum] = struct{}{}
	}

	unreferenced := make([]string, 0)
	for _, checksum := range checksums {
		if _, ok := live[checksum]; !ok {
			unreferenced = append(unreferenced, checksum)
		}
	}

	return unreferenced, nil
}
