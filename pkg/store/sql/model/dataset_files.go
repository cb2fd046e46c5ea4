package model

import (
	"encoding/json"
	"time"

	"github.com/zutoData/pindata-sub001/pkg/api"
	"github.com/zutoData/pindata-sub001/pkg/utils"
)

// DatasetFile mapped from table <dataset_files>. Each row is one membership
// of a content blob in a version; many rows across versions and datasets may
// share the same checksum, the bytes are stored once.
type DatasetFile struct {
	ID          string    `gorm:"column:id;primaryKey"`
	VersionID   string    `gorm:"column:version_id;not null;index"`
	Filename    string    `gorm:"column:filename;not null"`
	FileType    string    `gorm:"column:file_type;index"`
	FileSize    int64     `gorm:"column:file_size;not null"`
	Checksum    string    `gorm:"column:checksum;not null;index"`
	StorageKey  string    `gorm:"column:storage_key;not null"`
	Metadata    string    `gorm:"column:metadata"`
	Annotations string    `gorm:"column:annotations"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (DatasetFile) TableName() string {
	return "dataset_files"
}

func (f *DatasetFile) ToAPI() *api.DatasetFile {
	out := &api.DatasetFile{
		ID:                f.ID,
		VersionID:         f.VersionID,
		Filename:          f.Filename,
		FileType:          f.FileType,
		FileSize:          f.FileSize,
		FileSizeFormatted: utils.FormatSize(f.FileSize),
		Checksum:          f.Checksum,
		StorageKey:        f.StorageKey,
		CreatedAt:         f.CreatedAt,
	}

	if f.Metadata != "" {
		// A row written by this engine always holds valid JSON; tolerate
		// anything else by leaving the field empty.
		_ = json.Unmarshal([]byte(f.Metadata), &out.Metadata)
	}
	if f.Annotations != "" {
		_ = json.Unmarshal([]byte(f.Annotations), &out.Annotations)
	}

	return out
}

// EncodeMetadata serializes the metadata map for storage.
func EncodeMetadata(metadata map[string]string) string {
	if len(metadata) == 0 {
		return ""
	}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(encoded)
}

// EncodeAnnotations serializes the annotation list for storage.
func EncodeAnnotations(annotations []string) string {
	if len(annotations) == 0 {
		return ""
	}
	encoded, err := json.Marshal(annotations)
	if err != nil {
		return ""
	}
	return string(encoded)
}
