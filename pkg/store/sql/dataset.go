package sql

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zutoData/pindata-sub001/pkg/api"
	"github.com/zutoData/pindata-sub001/pkg/contract"
	"github.com/zutoData/pindata-sub001/pkg/store/sql/model"
)

func (s *Store) CreateDataset(input *api.CreateDatasetRequest) (*api.Dataset, *contract.Error) {
	now := time.Now().UTC()
	dataset := model.Dataset{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.db.Create(&dataset).Error; err != nil {
		return nil, contract.NewErrorWith(
			contract.ErrorCodeInternalError,
			"failed to create dataset",
			err,
		)
	}

	return dataset.ToAPI(), nil
}

func (s *Store) GetDataset(id string) (*api.Dataset, *contract.Error) {
	var dataset model.Dataset
	if err := s.db.Where("id = ?", id).First(&dataset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, contract.NewError(
				contract.ErrorCodeResourceDoesNotExist,
				fmt.Sprintf("No dataset with id=%s exists", id),
			)
		}

		return nil, contract.NewErrorWith(contract.ErrorCodeInternalError, "failed to get dataset", err)
	}

	return dataset.ToAPI(), nil
}

func (s *Store) ListDatasets() ([]*api.Dataset, *contract.Error) {
	var datasets []model.Dataset
	if err := s.db.Order("created_at DESC").Order("id").Find(&datasets).Error; err != nil {
		return nil, contract.NewErrorWith(contract.ErrorCodeInternalError, "failed to list datasets", err)
	}

	out := make([]*api.Dataset, 0, len(datasets))
	for i := range datasets {
		out = append(out, datasets[i].ToAPI())
	}
	return out, nil
}
