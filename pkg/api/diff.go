package api

import "github.com/zutoData/pindata-sub001/pkg/diff"

type DiffQuery struct {
	Version1 string `query:"version1" validate:"required,uuid"`
	Version2 string `query:"version2" validate:"required,uuid"`
}

type DiffResponse struct {
	Version1 *Version    `json:"version1"`
	Version2 *Version    `json:"version2"`
	Diff     diff.Result `json:"diff"`
}
