package model

import (
	"time"

	"github.com/zutoData/pindata-sub001/pkg/api"
)

// Dataset mapped from table <datasets>.
type Dataset struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name;not null;index"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
	Versions    []Version `gorm:"foreignKey:DatasetID"`
}

func (Dataset) TableName() string {
	return "datasets"
}

func (d *Dataset) ToAPI() *api.Dataset {
	return &api.Dataset{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
