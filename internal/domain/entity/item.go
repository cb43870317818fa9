package entity

import "time"

// Item representa un SKU del inventario con su jerarquía de categorías
// (ambiente → familia → nivel3 → nivel4). Se crea la primera vez que el SKU
// aparece en un archivo; los campos descriptivos no se reescriben en cargas
// posteriores (gana el primer avistamiento).
type Item struct {
	ID          int64
	SKU         string // código único global
	MasterID    string
	Description string
	Color       string
	Environment string // ambiente (nivel 1)
	Family      string // familia (nivel 2)
	Level3      string
	Level4      string
	CreatedAt   time.Time
}
