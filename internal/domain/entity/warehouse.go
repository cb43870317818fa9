package entity

import "time"

// Warehouse representa un depósito o sucursal que sube snapshots de stock.
// DepositID/DepositCode vienen del sistema externo; ID es el surrogate interno.
// ExpectedUploadDay es el día de la semana (nombre en español, ej. "Lunes") en
// que se espera la carga fuerte; nil si la sucursal no lo tiene configurado.
// Las sucursales nunca se borran, solo se habilitan/deshabilitan.
type Warehouse struct {
	ID                int64
	DepositID         *int64
	DepositCode       string
	Name              string
	ExpectedUploadDay *string
	Disabled          bool
	CreatedAt         time.Time
}
