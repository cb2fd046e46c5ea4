// Package api defines the JSON wire shapes of the versioning service.
package api

import "time"

type Dataset struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateDatasetRequest struct {
	Name        string `json:"name"        validate:"required,max=255"`
	Description string `json:"description" validate:"max=4096"`
}

type DatasetListResponse struct {
	Datasets []*Dataset `json:"datasets"`
}
