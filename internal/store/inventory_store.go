package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vbonduro/boatlog/internal/domain"
)

const inventoryColumns = `id, created_at, updated_at, name, quantity, unit, category, expiry_date, notes, to_buy`

type InventoryStore struct {
	db *sql.DB
}

func NewInventoryStore(db *sql.DB) *InventoryStore {
	return &InventoryStore{db: db}
}

func scanInventoryItem(sc rowScanner) (*domain.InventoryItem, error) {
	item := &domain.InventoryItem{}
	err := sc.Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt, &item.Name, &item.Quantity, &item.Unit,
		&item.Category, &item.ExpiryDate, &item.Notes, &item.ToBuy)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *InventoryStore) Create(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory (name, quantity, unit, category, expiry_date, notes, to_buy)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, item.Name, item.Quantity, item.Unit, nullableString(item.Category), item.ExpiryDate, nullableString(item.Notes), item.ToBuy)
	if err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *InventoryStore) GetByID(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	item, err := scanInventoryItem(s.db.QueryRowContext(ctx, `
		SELECT `+inventoryColumns+` FROM inventory WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return item, nil
}

func (s *InventoryStore) List(ctx context.Context) ([]*domain.InventoryItem, error) {
	items, err := queryAll(ctx, s.db, scanInventoryItem, `
		SELECT `+inventoryColumns+` FROM inventory ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}

func (s *InventoryStore) ListByCategory(ctx context.Context, category string) ([]*domain.InventoryItem, error) {
	items, err := queryAll(ctx, s.db, scanInventoryItem, `
		SELECT `+inventoryColumns+` FROM inventory WHERE category = ? ORDER BY name ASC, id ASC
	`, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory by category: %w", err)
	}
	return items, nil
}

// ListLowStock returns items with quantity at or below threshold, lowest
// quantity first.
func (s *InventoryStore) ListLowStock(ctx context.Context, threshold float64) ([]*domain.InventoryItem, error) {
	items, err := queryAll(ctx, s.db, scanInventoryItem, `
		SELECT `+inventoryColumns+` FROM inventory WHERE quantity <= ? ORDER BY quantity ASC, name ASC
	`, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock: %w", err)
	}
	return items, nil
}

func (s *InventoryStore) ListToBuy(ctx context.Context) ([]*domain.InventoryItem, error) {
	items, err := queryAll(ctx, s.db, scanInventoryItem, `
		SELECT `+inventoryColumns+` FROM inventory WHERE to_buy = 1 ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list to-buy items: %w", err)
	}
	return items, nil
}

// Update writes only the non-nil fields of patch, refreshes updated_at, and
// returns the updated row.
func (s *InventoryStore) Update(ctx context.Context, id int64, patch domain.InventoryPatch) (*domain.InventoryItem, error) {
	var set setClause
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.Quantity != nil {
		set.add("quantity", *patch.Quantity)
	}
	if patch.Unit != nil {
		set.add("unit", *patch.Unit)
	}
	if patch.Category != nil {
		set.add("category", nullableString(patch.Category))
	}
	if patch.ExpiryDate != nil {
		set.add("expiry_date", *patch.ExpiryDate)
	}
	if patch.Notes != nil {
		set.add("notes", nullableString(patch.Notes))
	}
	if patch.ToBuy != nil {
		set.add("to_buy", *patch.ToBuy)
	}

	query := `UPDATE inventory SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if !set.empty() {
		query = `UPDATE inventory SET ` + set.String() + `, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	}
	result, err := s.db.ExecContext(ctx, query, append(set.args, id)...)
	if err != nil {
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("inventory item %d: %w", id, domain.ErrNotFound)
	}

	return s.GetByID(ctx, id)
}

// ToggleToBuy flips to_buy in place and returns the row as written.
func (s *InventoryStore) ToggleToBuy(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin toggle: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		UPDATE inventory SET to_buy = NOT to_buy, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle to-buy: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("inventory item %d: %w", id, domain.ErrNotFound)
	}

	item, err := scanInventoryItem(tx.QueryRowContext(ctx, `
		SELECT `+inventoryColumns+` FROM inventory WHERE id = ?
	`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to read toggled item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit toggle: %w", err)
	}
	return item, nil
}

// Delete removes the item. Deleting a missing id is not an error.
func (s *InventoryStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM inventory WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	return nil
}
