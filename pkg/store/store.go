package store

import (
	"github.com/zutoData/pindata-sub001/pkg/api"
	"github.com/zutoData/pindata-sub001/pkg/contract"
)

// FileSpec is a resolved file membership ready to persist: the content is
// already in the blob store and the checksum/storage key are final.
type FileSpec struct {
	Filename    string
	FileType    string
	FileSize    int64
	Checksum    string
	StorageKey  string
	Metadata    map[string]string
	Annotations []string
}

// FilePage is the file-listing result; TypeCounts is only populated for
// dataset-wide listings (the reuse picker's per-type tabs).
type FilePage struct {
	Files      []*api.DatasetFile
	Total      int64
	TypeCounts map[string]int64
}

// VersionStore is the metadata store of the versioning engine. All methods
// are safe for concurrent use; mutations are transactional and never leave a
// partially created version visible.
type VersionStore interface {
	CreateDataset(input *api.CreateDatasetRequest) (*api.Dataset, *contract.Error)
	GetDataset(id string) (*api.Dataset, *contract.Error)
	ListDatasets() ([]*api.Dataset, *contract.Error)

	// CreateVersion persists a new version and all its file memberships in
	// one transaction. Fails with DUPLICATE_VERSION on a version-string
	// collision within the dataset and INVALID_VERSION_GRAPH when the
	// parent does not belong to the dataset.
	CreateVersion(datasetID string, input *api.CreateVersionRequest, files []FileSpec) (*api.Version, *contract.Error)

	// CloneVersion creates a child version referencing every file of the
	// source by checksum. No content is read or copied.
	CloneVersion(sourceVersionID string, input *api.CloneVersionRequest) (*api.Version, *contract.Error)

	GetVersion(id string) (*api.Version, *contract.Error)

	// GetVersionTree lists all versions of a dataset, newest first.
	GetVersionTree(datasetID string) ([]*api.Version, *contract.Error)

	// SetDefaultVersion atomically makes the target the only default
	// version of its dataset.
	SetDefaultVersion(versionID string) (*api.Version, *contract.Error)

	PublishVersion(versionID string) (*api.Version, *contract.Error)
	DeprecateVersion(versionID string) (*api.Version, *contract.Error)

	// GetFilesForReuse resolves existing file ids against a dataset. Every
	// id must belong to some version of the dataset; otherwise the call
	// fails with FILE_NOT_FOUND.
	GetFilesForReuse(datasetID string, fileIDs []string) ([]*api.DatasetFile, *contract.Error)

	// AttachFile adds a membership row to a non-deprecated version and
	// recomputes the version aggregates in the same transaction.
	AttachFile(versionID string, spec FileSpec) (*api.DatasetFile, *contract.Error)

	// DeleteVersionFiles removes membership rows from a non-deprecated
	// version, recomputing aggregates. Returns the number of rows removed.
	DeleteVersionFiles(versionID string, fileIDs []string) (int, *contract.Error)

	ListVersionFiles(versionID string, query *api.ListFilesQuery) (*FilePage, *contract.Error)
	ListDatasetFiles(datasetID string, query *api.ListFilesQuery) (*FilePage, *contract.Error)

	// FilterUnreferenced returns the subset of checksums with no live
	// dataset_files reference, for the blob sweep.
	FilterUnreferenced(checksums []string) ([]string, *contract.Error)
}
