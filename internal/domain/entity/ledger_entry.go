package entity

import "time"

// LedgerEntry es el hecho central del libro mayor de stock: una observación de
// cantidad absoluta para un (item, sucursal) en una fecha de negocio. El libro
// es append-only: las filas nunca se actualizan ni se borran; las correcciones
// se modelan como filas nuevas.
//
// Invariante: para un (item, sucursal) fijo las filas quedan totalmente
// ordenadas por (StockDate, ID) y existe a lo sumo una por StockDate.
type LedgerEntry struct {
	ID          int64
	ItemID      int64
	WarehouseID int64
	LoadEventID int64

	StockDate time.Time // fecha de negocio declarada por el archivo
	Quantity  int64     // cantidad absoluta observada

	// PreviousQuantity es la cantidad de la fila inmediatamente anterior del
	// mismo par, nil cuando IsInitial.
	PreviousQuantity *int64
	IsInitial        bool
	// IsNewArrival marca reposición: sin fila previa o cantidad >= anterior.
	// false solo cuando la cantidad bajó (consumo neto).
	IsNewArrival bool

	LoadedAt time.Time // timestamp de pared de la ingesta
}

// Delta devuelve el cambio neto que esta fila aporta al total de su categoría:
// Quantity - PreviousQuantity, tratando nil como 0.
func (e *LedgerEntry) Delta() int64 {
	if e.PreviousQuantity == nil {
		return e.Quantity
	}
	return e.Quantity - *e.PreviousQuantity
}
