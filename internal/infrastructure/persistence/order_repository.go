package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopsync/backend/internal/domain/integration"
	"github.com/shopsync/backend/internal/infrastructure/persistence/models"
)

// GormOrderImporter implements OrderImporter using GORM
type GormOrderImporter struct {
	db *gorm.DB
}

var _ integration.OrderImporter = (*GormOrderImporter)(nil)

// NewGormOrderImporter creates a new GormOrderImporter
func NewGormOrderImporter(db *gorm.DB) *GormOrderImporter {
	return &GormOrderImporter{db: db}
}

// CreateOrder persists a mapped order with its lines in one transaction and
// returns the local order ID.
func (r *GormOrderImporter) CreateOrder(ctx context.Context, order *integration.LocalOrder) (uuid.UUID, error) {
	var model models.OrderModel
	model.FromDomain(order)
	model.ID = uuid.New()
	for i := range model.Lines {
		model.Lines[i].ID = uuid.New()
		model.Lines[i].OrderID = model.ID
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return uuid.Nil, err
	}
	return model.ID, nil
}
