package entity

// HierarchyLevel indica a qué nivel de la jerarquía de categorías se agrega
// una reconstrucción de serie temporal.
type HierarchyLevel string

const (
	LevelWarehouse   HierarchyLevel = "sucursal"
	LevelEnvironment HierarchyLevel = "ambiente"
	LevelFamily      HierarchyLevel = "familia"
	LevelLevel3      HierarchyLevel = "nivel3"
	LevelLevel4      HierarchyLevel = "nivel4"
	LevelSKU         HierarchyLevel = "sku"
)

// Etiquetas para categorías sin valor; se agrupan bajo estos literales en vez
// de descartarse, para que los totales reconcilien.
const (
	NoEnvironment = "Sin Ambiente"
	NoFamily      = "Sin Familia"
	NoLevel3      = "Sin Nivel 3"
	NoLevel4      = "Sin Nivel 4"
)

// HierarchyCut describe un corte de jerarquía: el nivel de agregación más los
// filtros de igualdad de los niveles superiores. Los filtros son opcionales y
// explícitos; nil significa "sin filtro" (no se usan valores centinela).
type HierarchyCut struct {
	Level       HierarchyLevel
	WarehouseID *int64
	Environment *string
	Family      *string
	Level3      *string
	Level4      *string
	SKU         *string
}

// CutWarehouse corte de sucursal completa (una sola serie con el total).
func CutWarehouse(warehouseID *int64) HierarchyCut {
	return HierarchyCut{Level: LevelWarehouse, WarehouseID: warehouseID}
}

// CutEnvironment una serie por ambiente.
func CutEnvironment(warehouseID *int64) HierarchyCut {
	return HierarchyCut{Level: LevelEnvironment, WarehouseID: warehouseID}
}

// CutFamily series por familia dentro de un ambiente.
func CutFamily(warehouseID *int64, environment string) HierarchyCut {
	return HierarchyCut{Level: LevelFamily, WarehouseID: warehouseID, Environment: &environment}
}

// CutLevel3 series por nivel3 dentro de (ambiente, familia).
func CutLevel3(warehouseID *int64, environment, family string) HierarchyCut {
	return HierarchyCut{Level: LevelLevel3, WarehouseID: warehouseID, Environment: &environment, Family: &family}
}

// CutLevel4 series por nivel4 dentro de (ambiente, familia, nivel3).
func CutLevel4(warehouseID *int64, environment, family, level3 string) HierarchyCut {
	return HierarchyCut{
		Level: LevelLevel4, WarehouseID: warehouseID,
		Environment: &environment, Family: &family, Level3: &level3,
	}
}

// CutSKU la serie de un único SKU.
func CutSKU(warehouseID *int64, sku string) HierarchyCut {
	return HierarchyCut{Level: LevelSKU, WarehouseID: warehouseID, SKU: &sku}
}
