package dto

// EvolutionPointDTO un punto de la serie reconstruida: total vigente de una
// clave de categoría en un día.
type EvolutionPointDTO struct {
	Key      string `json:"clave"`
	Date     string `json:"fecha"` // YYYY-MM-DD
	Quantity int64  `json:"cantidad"`
}

// SnapshotNodeDTO nodo plano del treemap: jerarquía completa + total vigente.
type SnapshotNodeDTO struct {
	Environment string `json:"ambiente"`
	Family      string `json:"familia"`
	Level3      string `json:"nivel3"`
	Level4      string `json:"nivel4"`
	Quantity    int64  `json:"cantidad"`
}

// StockoutProductDTO un quiebre puntual con su último ingreso previo.
type StockoutProductDTO struct {
	SKU         string `json:"sku"`
	Description string `json:"descripcion"`
	Environment string `json:"ambiente"`
	Family      string `json:"familia"`
	Warehouse   string `json:"sucursal"`
	StockDate   string `json:"fecha_quiebre"` // YYYY-MM-DD

	// Datos del último ingreso anterior al quiebre; nil si el par nunca tuvo
	// un ingreso previo registrado.
	LastArrivalDate     *string `json:"fecha_ultimo_ingreso,omitempty"`
	LastArrivalQuantity *int64  `json:"cantidad_ultimo_ingreso,omitempty"`
	Added               *int64  `json:"agregado,omitempty"`
}

// StockoutDayDTO quiebres agrupados por día de la semana.
type StockoutDayDTO struct {
	DayName  string               `json:"dia"`
	Count    int                  `json:"cantidad"`
	Products []StockoutProductDTO `json:"productos"`
}

// ConsumptionPointDTO consumo del día contra stock total vigente ese día.
type ConsumptionPointDTO struct {
	Date     string `json:"fecha"` // YYYY-MM-DD
	Consumed int64  `json:"consumo"`
	Stock    int64  `json:"stock"`
}
