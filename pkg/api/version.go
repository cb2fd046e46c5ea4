package api

import "time"

// VersionType classifies the semantic bump of a version.
type VersionType string

const (
	VersionTypeMajor VersionType = "major"
	VersionTypeMinor VersionType = "minor"
	VersionTypePatch VersionType = "patch"
)

type Version struct {
	ID                 string         `json:"id"`
	DatasetID          string         `json:"dataset_id"`
	ParentVersionID    *string        `json:"parent_version_id,omitempty"`
	Version            string         `json:"version"`
	VersionType        VersionType    `json:"version_type"`
	CommitHash         string         `json:"commit_hash"`
	CommitMessage      string         `json:"commit_message"`
	Author             string         `json:"author"`
	TotalSize          int64          `json:"total_size"`
	TotalSizeFormatted string         `json:"total_size_formatted"`
	FileCount          int            `json:"file_count"`
	DataChecksum       string         `json:"data_checksum"`
	IsDefault          bool           `json:"is_default"`
	IsDraft            bool           `json:"is_draft"`
	IsDeprecated       bool           `json:"is_deprecated"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	Files              []*DatasetFile `json:"files,omitempty"`
}

// FileUpload carries new file content into a version. Content is
// base64-encoded in the JSON payload.
type FileUpload struct {
	Filename    string            `json:"filename"     validate:"required,max=1024"`
	FileType    string            `json:"file_type"    validate:"max=64"`
	Content     string            `json:"content"      validate:"required,base64"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Annotations []string          `json:"annotations,omitempty"`
}

type CreateVersionRequest struct {
	Version         string        `json:"version"           validate:"required,versionString"`
	VersionType     VersionType   `json:"version_type"      validate:"required,oneof=major minor patch"`
	Author          string        `json:"author"            validate:"required,max=255"`
	CommitMessage   string        `json:"commit_message"    validate:"required,max=4096"`
	ParentVersionID *string       `json:"parent_version_id" validate:"omitempty,uuid"`
	IsDraft         bool          `json:"is_draft"`
	Files           []*FileUpload `json:"files"             validate:"dive"`
	ExistingFileIDs []string      `json:"existing_file_ids" validate:"dive,uuid"`
}

type CloneVersionRequest struct {
	NewVersion    string `json:"new_version"    validate:"required,versionString"`
	Author        string `json:"author"         validate:"required,max=255"`
	CommitMessage string `json:"commit_message" validate:"required,max=4096"`
}

type VersionListResponse struct {
	Versions []*Version `json:"versions"`
}
