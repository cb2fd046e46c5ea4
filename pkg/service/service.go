// Package service composes the metadata store, the content store, and the
// diff engine into the versioning operations exposed over HTTP.
package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/zutoData/pindata-sub001/pkg/api"
	"github.com/zutoData/pindata-sub001/pkg/blob"
	"github.com/zutoData/pindata-sub001/pkg/contract"
	"github.com/zutoData/pindata-sub001/pkg/store"
)

type VersioningService struct {
	store store.VersionStore
	blobs blob.Store
	log   *logrus.Logger
}

func NewVersioningService(versionStore store.VersionStore, blobs blob.Store, log *logrus.Logger) *VersioningService {
	return &VersioningService{
		store: versionStore,
		blobs: blobs,
		log:   log,
	}
}

func (s *VersioningService) CreateDataset(input *api.CreateDatasetRequest) (*api.Dataset, *contract.Error) {
	return s.store.CreateDataset(input)
}

func (s *VersioningService) GetDataset(id string) (*api.Dataset, *contract.Error) {
	return s.store.GetDataset(id)
}

func (s *VersioningService) ListDatasets() (*api.DatasetListResponse, *contract.Error) {
	datasets, err := s.store.ListDatasets()
	if err != nil {
		return nil, err
	}
	return &api.DatasetListResponse{Datasets: datasets}, nil
}

// SweepUnreferencedBlobs deletes blobs that no dataset file references
// anymore. Deliberately an explicit admin operation, never run inline with
// writes; a blob uploaded but not yet committed is only at risk if the sweep
// races the creation window, which is why this is operator-triggered.
func (s *VersioningService) SweepUnreferencedBlobs(ctx context.Context) (*api.SweepResponse, *contract.Error) {
	lister, ok := s.blobs.(blob.Lister)
	if !ok {
		return nil, contract.NewError(
			contract.ErrorCodeBadRequest,
			"the configured blob store does not support enumeration",
		)
	}

	checksums, err := lister.List(ctx)
	if err != nil {
		return nil, contract.NewErrorWith(
			contract.ErrorCodeStorageUnavailable,
			"failed to enumerate blobs",
			err,
		)
	}

	unreferenced, cErr := s.store.FilterUnreferenced(checksums)
	if cErr != nil {
		return nil, cErr
	}

	removed := 0
	for _, checksum := range unreferenced {
		if err := s.blobs.Delete(ctx, checksum); err != nil {
			// Best effort: log and keep sweeping, the next run picks
			// the blob up again.
			s.log.WithError(err).Warnf("sweep: failed to delete blob %s", checksum)
			continue
		}
		removed++
	}

	s.log.Infof("sweep removed %d of %d unreferenced blobs", removed, len(unreferenced))

	return &api.SweepResponse{Removed: removed}, nil
}

// verifyContent confirms that the blob behind an existing file is still
// resolvable. A missing blob means store corruption, not user error, and is
// logged at error level so it alerts.
func (s *VersioningService) verifyContent(ctx context.Context, file *api.DatasetFile) *contract.Error {
	exists, err := s.blobs.Exists(ctx, file.Checksum)
	if err != nil {
		return contract.NewErrorWith(
			contract.ErrorCodeStorageUnavailable,
			"failed to check blob existence",
			err,
		)
	}
	if !exists {
		s.log.Errorf(
			"integrity fault: blob %s referenced by file %s (%s) is missing from the content store",
			file.Checksum, file.ID, file.Filename,
		)
		return contract.NewError(
			contract.ErrorCodeContentMissing,
			fmt.Sprintf("Content %s for file %q is missing from the content store", file.Checksum, file.Filename),
		)
	}
	return nil
}
