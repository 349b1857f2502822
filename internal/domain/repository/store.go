package repository

import (
	"context"

	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
)

// Puertos de persistencia del espejo local (DIP). Cada colección se persiste
// completa: la sincronización siempre reemplaza el snapshot de la entidad,
// nunca muta registros individuales, así que el contrato es leer todo y
// escribir todo.

// ProductRepository persiste el snapshot del catálogo de productos.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]entity.Product, error)
	ReplaceAll(ctx context.Context, products []entity.Product) error
}

// VariationRepository persiste el snapshot de variaciones de productos variables.
type VariationRepository interface {
	GetAll(ctx context.Context) ([]entity.ProductVariation, error)
	ReplaceAll(ctx context.Context, variations []entity.ProductVariation) error
}

// OrderRepository persiste el histórico de pedidos espejados.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]entity.Order, error)
	ReplaceAll(ctx context.Context, orders []entity.Order) error
}

// InventoryRepository persiste los registros de inventario con costos.
type InventoryRepository interface {
	GetAll(ctx context.Context) ([]entity.InventoryRecord, error)
	ReplaceAll(ctx context.Context, records []entity.InventoryRecord) error
}

// OverheadCostRepository persiste las reglas de costos indirectos.
type OverheadCostRepository interface {
	GetAll(ctx context.Context) ([]entity.OverheadCost, error)
	ReplaceAll(ctx context.Context, rules []entity.OverheadCost) error
}

// ExpenseRepository persiste los gastos operativos registrados.
type ExpenseRepository interface {
	GetAll(ctx context.Context) ([]entity.Expense, error)
	ReplaceAll(ctx context.Context, expenses []entity.Expense) error
}

// SyncMarkerRepository persiste las marcas de última sincronización por
// entidad. Get devuelve el marcador cero (sin error) si la entidad nunca se
// ha sincronizado.
type SyncMarkerRepository interface {
	Get(ctx context.Context, en string) (entity.SyncMarker, error)
	Put(ctx context.Context, marker entity.SyncMarker) error
}
