package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/zutoData/pindata-sub001/pkg/api"
	"github.com/zutoData/pindata-sub001/pkg/utils"
)

// Version mapped from table <versions>. Versions of a dataset form a tree
// through ParentVersionID; the first version has a nil parent.
type Version struct {
	ID              string        `gorm:"column:id;primaryKey"`
	DatasetID       string        `gorm:"column:dataset_id;not null;uniqueIndex:idx_versions_dataset_version"`
	ParentVersionID *string       `gorm:"column:parent_version_id"`
	Version         string        `gorm:"column:version;not null;uniqueIndex:idx_versions_dataset_version"`
	VersionType     string        `gorm:"column:version_type;not null"`
	CommitHash      string        `gorm:"column:commit_hash;not null"`
	CommitMessage   string        `gorm:"column:commit_message"`
	Author          string        `gorm:"column:author;not null"`
	TotalSize       int64         `gorm:"column:total_size;not null"`
	FileCount       int           `gorm:"column:file_count;not null"`
	DataChecksum    string        `gorm:"column:data_checksum"`
	IsDefault       bool          `gorm:"column:is_default;not null"`
	IsDraft         bool          `gorm:"column:is_draft;not null"`
	IsDeprecated    bool          `gorm:"column:is_deprecated;not null"`
	CreatedAt       time.Time     `gorm:"column:created_at"`
	UpdatedAt       time.Time     `gorm:"column:updated_at"`
	Files           []DatasetFile `gorm:"foreignKey:VersionID"`
}

func (Version) TableName() string {
	return "versions"
}

func (v *Version) ToAPI() *api.Version {
	out := &api.Version{
		ID:                 v.ID,
		DatasetID:          v.DatasetID,
		ParentVersionID:    v.ParentVersionID,
		Version:            v.Version,
		VersionType:        api.VersionType(v.VersionType),
		CommitHash:         v.CommitHash,
		CommitMessage:      v.CommitMessage,
		Author:             v.Author,
		TotalSize:          v.TotalSize,
		TotalSizeFormatted: utils.FormatSize(v.TotalSize),
		FileCount:          v.FileCount,
		DataChecksum:       v.DataChecksum,
		IsDefault:          v.IsDefault,
		IsDraft:            v.IsDraft,
		IsDeprecated:       v.IsDeprecated,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}

	if len(v.Files) > 0 {
		out.Files = make([]*api.DatasetFile, 0, len(v.Files))
		for i := range v.Files {
			out.Files = append(out.Files, v.Files[i].ToAPI())
		}
	}

	return out
}

// CommitHash derives the verifiable fingerprint of a version: a digest over
// the sorted (filename, checksum) pairs of its members plus the commit
// message and author. Two versions with the same content and commit metadata
// hash identically.
func CommitHash(files []DatasetFile, commitMessage, author string) string {
	pairs := make([]string, 0, len(files))
	for i := range files {
		pairs = append(pairs, files[i].Filename+"\x00"+files[i].Checksum)
	}
	sort.Strings(pairs)

	hash := sha256.New()
	for _, pair := range pairs {
		fmt.Fprintf(hash, "%s\n", pair)
	}
	fmt.Fprintf(hash, "message:%s\n", commitMessage)
	fmt.Fprintf(hash, "author:%s\n", author)

	return hex.EncodeToString(hash.Sum(nil))
}

// DataChecksum is the content-only aggregate digest over the sorted member
// checksums, independent of commit metadata.
func DataChecksum(files []DatasetFile) string {
	checksums := make([]string, 0, len(files))
	for i := range files {
		checksums = append(checksums, files[i].Checksum)
	}
	sort.Strings(checksums)

	hash := sha256.New()
	for _, checksum := range checksums {
		fmt.Fprintf(hash, "%s\n", checksum)
	}

	return hex.EncodeToString(hash.Sum(nil))
}

// TotalSize sums the member file sizes.
func TotalSize(files []DatasetFile) int64 {
	var total int64
	for i := range files {
		total += files[i].FileSize
	}
	return total
}
