package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WarehouseService manages the warehouse set. Deleting a warehouse leaves
// its items in place (orphaned, reachable by id only); there is no cascade.
type WarehouseService interface {
	CreateWarehouse(ctx context.Context, name, location, whType string) (*Warehouse, error)
	GetWarehouse(ctx context.Context, id string) (*Warehouse, error)
	ListWarehouses(ctx context.Context) ([]Warehouse, error)
	DeleteWarehouse(ctx context.Context, id string) error
}

type warehouseService struct {
	pool *pgxpool.Pool
	bus  *ChangeBus
}

// NewWarehouseService constructs a WarehouseService backed by PostgreSQL.
func NewWarehouseService(pool *pgxpool.Pool, bus *ChangeBus) WarehouseService {
	return &warehouseService{pool: pool, bus: bus}
}

func (s *warehouseService) CreateWarehouse(ctx context.Context, name, location, whType string) (*Warehouse, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(location) == "" {
		return nil, fmt.Errorf("warehouse name and location are required: %w", ErrMissingField)
	}
	if whType == "" {
		whType = "General"
	}

	w := &Warehouse{
		ID:        uuid.NewString(),
		Name:      name,
		Location:  location,
		Type:      whType,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO warehouses (id, name, location, type, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, w.ID, w.Name, w.Location, w.Type, w.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert warehouse: %w", err)
	}

	s.bus.Publish(ChangeEvent{Kind: ChangeWarehouse, WarehouseID: w.ID})
	return w, nil
}

func (s *warehouseService) GetWarehouse(ctx context.Context, id string) (*Warehouse, error) {
	w := &Warehouse{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, location, type, created_at
		FROM warehouses
		WHERE id = $1
	`, id).Scan(&w.ID, &w.Name, &w.Location, &w.Type, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("warehouse %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch warehouse: %w", err)
	}
	return w, nil
}

func (s *warehouseService) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, location, type, created_at
		FROM warehouses
		ORDER BY created_at, name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query warehouses: %w", err)
	}
	defer rows.Close()

	var warehouses []Warehouse
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Location, &w.Type, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan warehouse: %w", err)
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, rows.Err()
}

// DeleteWarehouse removes the warehouse record only. Items keep their
// warehouse_id and become orphaned; consumers must treat the reference as
// possibly unresolvable.
func (s *warehouseService) DeleteWarehouse(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM warehouses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete warehouse: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("warehouse %s: %w", id, ErrNotFound)
	}
	s.bus.Publish(ChangeEvent{Kind: ChangeWarehouse, WarehouseID: id})
	return nil
}
