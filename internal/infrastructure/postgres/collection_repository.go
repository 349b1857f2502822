package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/repository"
)

// CollectionStore persiste colecciones completas como jsonb, una fila por
// tipo de entidad. Leer trae el snapshot entero; guardar lo reemplaza. Es el
// contrato exacto que necesita la sincronización, que nunca muta registros
// sueltos.
type CollectionStore struct {
	pool *pgxpool.Pool
}

// NewCollectionStore construye el almacén de colecciones.
func NewCollectionStore(pool *pgxpool.Pool) *CollectionStore {
	return &CollectionStore{pool: pool}
}

// getAll deserializa el snapshot de una colección. Colección inexistente
// devuelve slice vacío, no error.
func getAll[T any](ctx context.Context, s *CollectionStore, entityType string) ([]T, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM collections WHERE entity_type = $1`, entityType,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("leyendo colección %s: %w", entityType, err)
	}
	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("deserializando colección %s: %w", entityType, err)
	}
	return items, nil
}

// replaceAll serializa y reemplaza el snapshot completo de una colección.
func replaceAll[T any](ctx context.Context, s *CollectionStore, entityType string, items []T) error {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("serializando colección %s: %w", entityType, err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO collections (entity_type, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (entity_type) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		entityType, payload,
	)
	if err != nil {
		return fmt.Errorf("guardando colección %s: %w", entityType, err)
	}
	return nil
}

// ── Adaptadores tipados por entidad ───────────────────────────────────────

var (
	_ repository.ProductRepository      = (*ProductCollection)(nil)
	_ repository.VariationRepository    = (*VariationCollection)(nil)
	_ repository.OrderRepository        = (*OrderCollection)(nil)
	_ repository.InventoryRepository    = (*InventoryCollection)(nil)
	_ repository.OverheadCostRepository = (*OverheadCollection)(nil)
	_ repository.ExpenseRepository      = (*ExpenseCollection)(nil)
	_ repository.SyncMarkerRepository   = (*MarkerCollection)(nil)
)

// ProductCollection implementa ProductRepository sobre el almacén jsonb.
type ProductCollection struct{ store *CollectionStore }

func NewProductCollection(store *CollectionStore) *ProductCollection {
	return &ProductCollection{store: store}
}

func (c *ProductCollection) GetAll(ctx context.Context) ([]entity.Product, error) {
	return getAll[entity.Product](ctx, c.store, entity.EntityProducts)
}

func (c *ProductCollection) ReplaceAll(ctx context.Context, products []entity.Product) error {
	return replaceAll(ctx, c.store, entity.EntityProducts, products)
}

// VariationCollection implementa VariationRepository.
type VariationCollection struct{ store *CollectionStore }

func NewVariationCollection(store *CollectionStore) *VariationCollection {
	return &VariationCollection{store: store}
}

func (c *VariationCollection) GetAll(ctx context.Context) ([]entity.ProductVariation, error) {
	return getAll[entity.ProductVariation](ctx, c.store, entity.EntityVariations)
}

func (c *VariationCollection) ReplaceAll(ctx context.Context, variations []entity.ProductVariation) error {
	return replaceAll(ctx, c.store, entity.EntityVariations, variations)
}

// OrderCollection implementa OrderRepository.
type OrderCollection struct{ store *CollectionStore }

func NewOrderCollection(store *CollectionStore) *OrderCollection {
	return &OrderCollection{store: store}
}

func (c *OrderCollection) GetAll(ctx context.Context) ([]entity.Order, error) {
	return getAll[entity.Order](ctx, c.store, entity.EntityOrders)
}

func (c *OrderCollection) ReplaceAll(ctx context.Context, orders []entity.Order) error {
	return replaceAll(ctx, c.store, entity.EntityOrders, orders)
}

// InventoryCollection implementa InventoryRepository.
type InventoryCollection struct{ store *CollectionStore }

func NewInventoryCollection(store *CollectionStore) *InventoryCollection {
	return &InventoryCollection{store: store}
}

func (c *InventoryCollection) GetAll(ctx context.Context) ([]entity.InventoryRecord, error) {
	return getAll[entity.InventoryRecord](ctx, c.store, entity.EntityInventory)
}

func (c *InventoryCollection) ReplaceAll(ctx context.Context, records []entity.InventoryRecord) error {
	return replaceAll(ctx, c.store, entity.EntityInventory, records)
}

// OverheadCollection implementa OverheadCostRepository.
type OverheadCollection struct{ store *CollectionStore }

func NewOverheadCollection(store *CollectionStore) *OverheadCollection {
	return &OverheadCollection{store: store}
}

func (c *OverheadCollection) GetAll(ctx context.Context) ([]entity.OverheadCost, error) {
	return getAll[entity.OverheadCost](ctx, c.store, entity.EntityOverheads)
}

func (c *OverheadCollection) ReplaceAll(ctx context.Context, rules []entity.OverheadCost) error {
	return replaceAll(ctx, c.store, entity.EntityOverheads, rules)
}

// ExpenseCollection implementa ExpenseRepository.
type ExpenseCollection struct{ store *CollectionStore }

func NewExpenseCollection(store *CollectionStore) *ExpenseCollection {
	return &ExpenseCollection{store: store}
}

func (c *ExpenseCollection) GetAll(ctx context.Context) ([]entity.Expense, error) {
	return getAll[entity.Expense](ctx, c.store, entity.EntityExpenses)
}

func (c *ExpenseCollection) ReplaceAll(ctx context.Context, expenses []entity.Expense) error {
	return replaceAll(ctx, c.store, entity.EntityExpenses, expenses)
}

// MarkerCollection implementa SyncMarkerRepository: todos los marcadores
// viven en una sola colección indexada por entidad.
type MarkerCollection struct{ store *CollectionStore }

func NewMarkerCollection(store *CollectionStore) *MarkerCollection {
	return &MarkerCollection{store: store}
}

func (c *MarkerCollection) Get(ctx context.Context, en string) (entity.SyncMarker, error) {
	markers, err := getAll[entity.SyncMarker](ctx, c.store, entity.EntityLastSync)
	if err != nil {
		return entity.SyncMarker{}, err
	}
	for _, m := range markers {
		if m.Entity == en {
			return m, nil
		}
	}
	return entity.SyncMarker{}, nil
}

func (c *MarkerCollection) Put(ctx context.Context, marker entity.SyncMarker) error {
	markers, err := getAll[entity.SyncMarker](ctx, c.store, entity.EntityLastSync)
	if err != nil {
		return err
	}
	replaced := false
	for i, m := range markers {
		if m.Entity == marker.Entity {
			markers[i] = marker
			replaced = true
			break
		}
	}
	if !replaced {
		markers = append(markers, marker)
	}
	return replaceAll(ctx, c.store, entity.EntityLastSync, markers)
}
