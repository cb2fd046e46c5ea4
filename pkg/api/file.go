package api

import "time"

type DatasetFile struct {
	ID                string            `json:"id"`
	VersionID         string            `json:"version_id"`
	Filename          string            `json:"filename"`
	FileType          string            `json:"file_type,omitempty"`
	FileSize          int64             `json:"file_size"`
	FileSizeFormatted string            `json:"file_size_formatted"`
	Checksum          string            `json:"checksum"`
	StorageKey        string            `json:"storage_key"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	Annotations       []string          `json:"annotations,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// ListFilesQuery covers both the per-version file listing and the
// dataset-wide reuse picker.
type ListFilesQuery struct {
	FileType         string `query:"file_type"          validate:"max=64"`
	Search           string `query:"search"             validate:"max=1024"`
	ExcludeVersionID string `query:"exclude_version_id" validate:"omitempty,uuid"`
	Page             int    `query:"page"               validate:"omitempty,min=1"`
	PageSize         int    `query:"page_size"          validate:"omitempty,min=1,max=100"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type FileListResponse struct {
	Files      []*DatasetFile   `json:"files"`
	Pagination Pagination       `json:"pagination"`
	TypeCounts map[string]int64 `json:"type_counts,omitempty"`
}

type AttachFileRequest struct {
	ExistingFileID string `json:"existing_file_id" validate:"required,uuid"`
}

// BatchFileOpRequest is the batch mutation envelope. Delete is the only
// operation the UI issues today.
type BatchFileOpRequest struct {
	Op      string   `json:"op"       validate:"required,oneof=delete"`
	FileIDs []string `json:"file_ids" validate:"required,min=1,dive,uuid"`
}

type BatchFileOpResponse struct {
	Affected int `json:"affected"`
}

type SweepResponse struct {
	Removed int `json:"removed"`
}
