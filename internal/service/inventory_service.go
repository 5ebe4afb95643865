package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vbonduro/boatlog/internal/domain"
)

// DefaultLowStockThreshold is used when a low-stock query gives no usable
// threshold.
const DefaultLowStockThreshold = 5

type inventoryRepository interface {
	Create(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error)
	GetByID(ctx context.Context, id int64) (*domain.InventoryItem, error)
	List(ctx context.Context) ([]*domain.InventoryItem, error)
	ListByCategory(ctx context.Context, category string) ([]*domain.InventoryItem, error)
	ListLowStock(ctx context.Context, threshold float64) ([]*domain.InventoryItem, error)
	ListToBuy(ctx context.Context) ([]*domain.InventoryItem, error)
	Update(ctx context.Context, id int64, patch domain.InventoryPatch) (*domain.InventoryItem, error)
	ToggleToBuy(ctx context.Context, id int64) (*domain.InventoryItem, error)
	Delete(ctx context.Context, id int64) error
}

// InventoryFilter narrows ListItems. Category wins over LowStock.
type InventoryFilter struct {
	Category string
	LowStock bool
	// Threshold applies when LowStock is set; zero means the service default.
	Threshold float64
}

type InventoryService struct {
	store           inventoryRepository
	lowStockDefault float64
	logger          *slog.Logger
}

func NewInventoryService(store inventoryRepository, lowStockDefault float64, logger *slog.Logger) *InventoryService {
	if lowStockDefault <= 0 {
		lowStockDefault = DefaultLowStockThreshold
	}
	return &InventoryService{store: store, lowStockDefault: lowStockDefault, logger: logger}
}

func (s *InventoryService) ListItems(ctx context.Context, f InventoryFilter) ([]*domain.InventoryItem, error) {
	switch {
	case f.Category != "":
		return s.store.ListByCategory(ctx, f.Category)
	case f.LowStock:
		threshold := f.Threshold
		if threshold <= 0 {
			threshold = s.lowStockDefault
		}
		return s.store.ListLowStock(ctx, threshold)
	default:
		return s.store.List(ctx)
	}
}

func (s *InventoryService) ListToBuy(ctx context.Context) ([]*domain.InventoryItem, error) {
	return s.store.ListToBuy(ctx)
}

// GetItem returns nil, nil when the item does not exist.
func (s *InventoryService) GetItem(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	return s.store.GetByID(ctx, id)
}

func (s *InventoryService) CreateItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	created, err := s.store.Create(ctx, &item)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("inventory item created", "item_id", created.ID, "name", created.Name)
	return created, nil
}

func (s *InventoryService) UpdateItem(ctx context.Context, id int64, patch domain.InventoryPatch) (*domain.InventoryItem, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("inventory item %d: %w", id, domain.ErrNotFound)
	}
	if patch.IsEmpty() {
		return current, nil
	}
	merged := patch.Apply(*current)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, patch)
}

func (s *InventoryService) ToggleToBuy(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	item, err := s.store.ToggleToBuy(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("inventory to-buy toggled", "item_id", id, "to_buy", item.ToBuy)
	return item, nil
}

func (s *InventoryService) DeleteItem(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
