package sql

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zutoData/pindata-sub001/pkg/api"
	"github.com/zutoData/pindata-sub001/pkg/contract"
	"github.com/zutoData/pindata-sub001/pkg/store"
	"github.com/zutoData/pindata-sub001/pkg/store/sql/model"
)

// Sentinels carried out of transaction closures and mapped to contract
// errors at the call boundary.
var (
	errDatasetNotFound = errors.New("dataset not found")
	errInvalidParent   = errors.New("parent version outside dataset")
	errVersionLocked   = errors.New("version is deprecated")
)

func (s *Store) CreateVersion(
	datasetID string,
	input *api.CreateVersionRequest,
	files []store.FileSpec,
) (*api.Version, *contract.Error) {
	now := time.Now().UTC()

	version := model.Version{
		ID:              uuid.NewString(),
		DatasetID:       datasetID,
		ParentVersionID: input.ParentVersionID,
		Version:         input.Version,
		VersionType:     string(input.VersionType),
		CommitMessage:   input.CommitMessage,
		Author:          input.Author,
		IsDraft:         input.IsDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	memberships := make([]model.DatasetFile, 0, len(files))
	for _, spec := range files {
		memberships = append(memberships, model.DatasetFile{
			ID:          uuid.NewString(),
			VersionID:   version.ID,
			Filename:    spec.Filename,
			FileType:    spec.FileType,
			FileSize:    spec.FileSize,
			Checksum:    spec.Checksum,
			StorageKey:  spec.StorageKey,
			Metadata:    model.EncodeMetadata(spec.Metadata),
			Annotations: model.EncodeAnnotations(spec.Annotations),
			CreatedAt:   now,
		})
	}

	version.CommitHash = model.CommitHash(memberships, input.CommitMessage, input.Author)
	version.DataChecksum = model.DataChecksum(memberships)
	version.TotalSize = model.TotalSize(memberships)
	version.FileCount = len(memberships)

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Dataset{}).Where("id = ?", datasetID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check dataset: %w", err)
		}
		if count == 0 {
			return errDatasetNotFound
		}

		if input.ParentVersionID != nil {
			var parent model.Version
			err := tx.Where("id = ?", *input.ParentVersionID).First(&parent).Error
			if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && parent.DatasetID != datasetID) {
				return errInvalidParent
			}
			if err != nil {
				return fmt.Errorf("failed to check parent version: %w", err)
			}
		}

		if err := tx.Create(&version).Error; err != nil {
			return fmt.Errorf("failed to insert version: %w", err)
		}

		if len(memberships) > 0 {
			if err := tx.Create(&memberships).Error; err != nil {
				return fmt.Errorf("failed to insert version files: %w", err)
			}
		}

		return nil
	}); err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, contract.NewError(
				contract.ErrorCodeDuplicateVersion,
				fmt.Sprintf("Version %q already exists for dataset %s", input.Version, datasetID),
			)
		case errors.Is(err, errDatasetNotFound):
			return nil, contract.NewError(
				contract.ErrorCodeResourceDoesNotExist,
				fmt.Sprintf("No dataset with id=%s exists", datasetID),
			)
		case errors.Is(err, errInvalidParent):
			return nil, contract.NewError(
				contract.ErrorCodeInvalidVersionGraph,
				fmt.Sprintf("Parent version %s does not belong to dataset %s", *input.ParentVersionID, datasetID),
			)
		}

		return nil, contract.NewErrorWith(contract.ErrorCodeInternalError, "failed to create version", err)
	}

	version.Files = memberships

	return version.ToAPI(), nil
}

func (s *Store) CloneVersion(sourceVersionID string, input *api.CloneVersionRequest) (*api.Version, *contract.Error) {
	now := time.Now().UTC()

	var created model.Version

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		var source model.Version
		if err := tx.Preload("Files").Where("id = ?", sourceVersionID).First(&source).Error; err != nil {
			return fmt.Errorf("failed to load source version: %w", err)
		}

		created = model.Version{
			ID:              uuid.NewString(),
			DatasetID:       source.DatasetID,
			ParentVersionID: &source.ID,
			Version:         input.NewVersion,
			VersionType:     source.VersionType,
			CommitMessage:   input.CommitMessage,
			Author:          input.Author,
			// Content aggregates carry over untouched: the clone
			// references exactly the source membership.
			TotalSize:    source.TotalSize,
			FileCount:    source.FileCount,
			DataChecksum: source.DataChecksum,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		memberships := make([]model.DatasetFile, 0, len(source.Files))
		for i := range source.Files {
			src := source.Files[i]
			memberships = append(memberships, model.DatasetFile{
				ID:          uuid.NewString(),
				VersionID:   created.ID,
				Filename:    src.Filename,
				FileType:    src.FileType,
				FileSize:    src.FileSize,
				Checksum:    src.Checksum,
				StorageKey:  src.StorageKey,
				Metadata:    src.Metadata,
				Annotations: src.Annotations,
				CreatedAt:   now,
			})
		}

		created.CommitHash = model.CommitHash(memberships, input.CommitMessage, input.Author)

		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("failed to insert cloned version: %w", err)
		}
		if len(memberships) > 0 {
			if err := tx.Create(&memberships).Error; err != nil {
				return fmt.Errorf("failed to insert cloned version files: %w", err)
			}
		}

		created.Files = memberships

		return nil
	}); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, contract.NewError(
				contract.ErrorCodeResourceDoesNotExist,
				fmt.Sprintf("No version with id=%s exists", sourceVersionID),
			)
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, contract.NewError(
				contract.ErrorCodeDuplicateVersion,
				fmt.Sprintf("Version %q already exists for the dataset", input.NewVersion),
			)
		}

		return nil, contract.NewErrorWith(contract.ErrorCodeInternalError, "failed to clone version", err)
	}

	return created.ToAPI(), nil
}

func (s *Store) GetVersion(id string) (*api.Version, *contract.Error) {
	var version model.Version
	err := s.db.
		Preload("Files", func(db *gorm.DB) *gorm.DB {
			return db.Order("dataset_files.created_at").Order("dataset_files.id")
		}).
		Where("id = ?", id).
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, contract.NewError(
				contract.ErrorCodeResourceDoesNotExist,
				fmt.Sprintf("No version with id=%s exists", id),
			)
		}

		return nil, contract.NewErrorWith(contract.ErrorCodeInternalError, "failed to get version", err)
	}

	return version.ToAPI(), nil
}

func (s *Store) GetVersionTree(datasetID string) ([]*api.Version, *contract.Error) {
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

	var versions []model.Version
	err := s.db.
		Where("dataset_id = ?", datasetID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&versions).Error
	if err != nil {
		return nil, contract.NewErrorWith(contract.ErrorCodeInternalError, "failed to list versions", err)
	}

	out := make([]*api.Version, 0, len(versions))
	for i := range versions {
		out = append(out, versions[i].ToAPI())
	}
	return out, nil
}

// SetDefaultVersion flips the default flag to the target version inside a
// single transaction. The dataset row is locked for the duration so two
// concurrent callers serialize and exactly one default survives. sqlite has
// no FOR UPDATE; its single-writer transaction lock gives the same ordering.
func (s *Store) SetDefaultVersion(versionID string) (*api.Version, *contract.Error) {
	now := time.Now().UTC()

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		var version model.Version
		if err := tx.Where("id = ?", versionID).First(&version).Error; err != nil {
			return fmt.Errorf("failed to load version: %w", err)
		}

		if tx.Dialector.Name() != "sqlite" {
			var dataset model.Dataset
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ?", version.DatasetID).
				First(&dataset).Error; err != nil {
				return fmt.Errorf("failed to lock dataset: %w", err)
			}
		}

		if err := tx.Model(&model.Version{}).
			Where("dataset_id = ? AND is_default = ? AND id <> ?", version.DatasetID, true, versionID).
			Updates(map[string]interface{}{"is_default": false, "updated_at": now}).Error; err != nil {
			return fmt.Errorf("failed to clear previous default: %w", err)
		}

		if err := tx.Model(&model.Version{}).
			Where("id = ?", versionID).
			Updates(map[string]interface{}{"is_default": true, "updated_at": now}).Error; err != nil {
			return fmt.Errorf("failed to set default: %w", err)
		}

		return nil
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, contract.NewError(
				contract.ErrorCodeResourceDoesNotExist,
				fmt.Sprintf("No version with id=%s exists", versionID),
			)
		}

		return nil, contract.NewErrorWith(contract.ErrorCodeInternalError, "failed to set default version", err)
	}

	return s.GetVersion(versionID)
}

func (s *Store) PublishVersion(versionID string) (*api.Version, *contract.Error) {
	return s.updateFlags(versionID, map[string]interface{}{"is_draft": false})
}

// DeprecateVersion is irreversible; there is no operation that clears the
// flag. Deprecated versions reject file mutation.
func (s *Store) DeprecateVersion(versionID string) (*api.Version, *contract.Error) {
	return s.updateFlags(versionID, map[string]interface{}{"is_deprecated": true, "is_draft": false})
}

func (s *Store) updateFlags(versionID string, flags map[string]interface{}) (*api.Version, *contract.Error) {
	flags["updated_at"] = time.Now().UTC()

	result := s.db.Model(&model.Version{}).Where("id = ?", versionID).Updates(flags)
	if result.Error != nil {
		return nil, contract.NewErrorWith(contract.ErrorCodeInternalError, "failed to update version", result.Error)
	}
	if result.RowsAffected != 1 {
		return nil, contract.NewError(
			contract.ErrorCodeResourceDoesNotExist,
			fmt.Sprintf("No version with id=%s exists", versionID),
		)
	}

	return s.GetVersion(versionID)
}
