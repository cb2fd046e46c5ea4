package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/zutoData/pindata-sub001/pkg/api"
	"github.com/zutoData/pindata-sub001/pkg/blob"
	"github.com/zutoData/pindata-sub001/pkg/contract"
	"github.com/zutoData/pindata-sub001/pkg/diff"
	"github.com/zutoData/pindata-sub001/pkg/store"
)

// CreateVersion resolves every file source, then persists the version in a
// single metadata transaction. Blob uploads happen before and outside the
// transaction: an upload failure aborts the call with nothing visible, and a
// transaction failure leaves at worst an unreferenced blob for the sweep.
func (s *VersioningService) CreateVersion(
	ctx context.Context,
	datasetID string,
	input *api.CreateVersionRequest,
) (*api.Version, *contract.Error) {
	specs := make([]store.FileSpec, 0, len(input.Files)+len(input.ExistingFileIDs))

	reused, cErr := s.store.GetFilesForReuse(datasetID, input.ExistingFileIDs)
	if cErr != nil {
		return nil, cErr
	}
	for _, file := range reused {
		if cErr := s.verifyContent(ctx, file); cErr != nil {
			return nil, cErr
		}
		specs = append(specs, specFromFile(file))
	}

	for _, upload := range input.Files {
		spec, cErr := s.storeUpload(ctx, upload)
		if cErr != nil {
			return nil, cErr
		}
		specs = append(specs, spec)
	}

	version, cErr := s.store.CreateVersion(datasetID, input, specs)
	if cErr != nil {
		return nil, cErr
	}

	s.log.Infof(
		"created version %s (%s) of dataset %s with %d files",
		version.Version, version.ID, datasetID, version.FileCount,
	)

	return version, nil
}

func (s *VersioningService) CloneVersion(sourceVersionID string, input *api.CloneVersionRequest) (*api.Version, *contract.Error) {
	version, cErr := s.store.CloneVersion(sourceVersionID, input)
	if cErr != nil {
		return nil, cErr
	}

	s.log.Infof("cloned version %s into %s (%s)", sourceVersionID, version.Version, version.ID)

	return version, nil
}

func (s *VersioningService) GetVersion(id string) (*api.Version, *contract.Error) {
	return s.store.GetVersion(id)
}

func (s *VersioningService) GetVersionTree(datasetID string) (*api.VersionListResponse, *contract.Error) {
	versions, cErr := s.store.GetVersionTree(datasetID)
	if cErr != nil {
		return nil, cErr
	}
	return &api.VersionListResponse{Versions: versions}, nil
}

func (s *VersioningService) SetDefaultVersion(versionID string) (*api.Version, *contract.Error) {
	return s.store.SetDefaultVersion(versionID)
}

func (s *VersioningService) PublishVersion(versionID string) (*api.Version, *contract.Error) {
	return s.store.PublishVersion(versionID)
}

func (s *VersioningService) DeprecateVersion(versionID string) (*api.Version, *contract.Error) {
	return s.store.DeprecateVersion(versionID)
}

// DiffVersions compares the file memberships of two versions.
func (s *VersioningService) DiffVersions(version1ID, version2ID string) (*api.DiffResponse, *contract.Error) {
	version1, cErr := s.store.GetVersion(version1ID)
	if cErr != nil {
		return nil, cErr
	}
	version2, cErr := s.store.GetVersion(version2ID)
	if cErr != nil {
		return nil, cErr
	}

	result := diff.Compute(entriesOf(version1), entriesOf(version2))

	return &api.DiffResponse{
		Version1: version1,
		Version2: version2,
		Diff:     result,
	}, nil
}

func entriesOf(version *api.Version) []diff.Entry {
	entries := make([]diff.Entry, 0, len(version.Files))
	for _, file := range version.Files {
		entries = append(entries, diff.Entry{Filename: file.Filename, Checksum: file.Checksum})
	}
	return entries
}

// storeUpload decodes an uploaded file and writes its content to the blob
// store. The returned spec references content that is durably stored.
func (s *VersioningService) storeUpload(ctx context.Context, upload *api.FileUpload) (store.FileSpec, *contract.Error) {
	content, err := base64.StdEncoding.DecodeString(upload.Content)
	if err != nil {
		return store.FileSpec{}, contract.NewErrorWith(
			contract.ErrorCodeInvalidParameterValue,
			fmt.Sprintf("Invalid base64 content for file %q", upload.Filename),
			err,
		)
	}

	checksum, err := s.blobs.Put(ctx, content)
	if err != nil {
		return store.FileSpec{}, contract.NewErrorWith(
			contract.ErrorCodeStorageUnavailable,
			fmt.Sprintf("Failed to store content for file %q", upload.Filename),
			err,
		)
	}

	return store.FileSpec{
		Filename:    upload.Filename,
		FileType:    upload.FileType,
		FileSize:    int64(len(content)),
		Checksum:    checksum,
		StorageKey:  blob.Key(checksum),
		Metadata:    upload.Metadata,
		Annotations: upload.Annotations,
	}, nil
}

func specFromFile(file *api.DatasetFile) store.FileSpec {
	return store.FileSpec{
		Filename:    file.Filename,
		FileType:    file.FileType,
		FileSize:    file.FileSize,
		Checksum:    file.Checksum,
		StorageKey:  file.StorageKey,
		Metadata:    file.Metadata,
		Annotations: file.Annotations,
	}
}
