package entity

import "time"

// Estados del ciclo de vida de una carga. EN_PROCESO es el único estado no
// terminal; COMPLETADO y FALLIDO son finales.
const (
	LoadInProgress = "EN_PROCESO"
	LoadCompleted  = "COMPLETADO"
	LoadFailed     = "FALLIDO"
)

// ModuleStock etiqueta de módulo para cargas de stock (el sistema original
// también cargaba pedidos y caja; este servicio solo procesa stock).
const ModuleStock = "Stock"

// LoadEvent registra una corrida de ingesta: archivo origen, sucursal, fecha
// de negocio, contadores de progreso y el rango de ids de LedgerEntry que
// produjo. Lo crea el use case de ingesta al aceptar el archivo y solo la
// ingesta lo muta; nunca se borra.
type LoadEvent struct {
	ID          int64
	FileName    string // único: un archivo no se vuelve a cargar
	WarehouseID int64
	StockDate   time.Time // fecha de negocio del snapshot
	UploadedBy  string
	Module      string
	State       string

	TotalRows int
	Processed int
	Percent   int

	// Observations guarda el texto del error cuando State es FALLIDO.
	Observations string

	// Rango de ids de LedgerEntry producidos; nil si la corrida no escribió
	// ninguna fila (snapshot sin cambios) o aún no escribió la primera.
	FirstLedgerID *int64
	LastLedgerID  *int64

	CreatedAt time.Time
}

// Terminal indica si el evento ya alcanzó un estado final.
func (e *LoadEvent) Terminal() bool {
	return e.State == LoadCompleted || e.State == LoadFailed
}
