package dto

// WarehouseResponse sucursal para listados y detalle.
type WarehouseResponse struct {
	ID                int64   `json:"id"`
	DepositID         *int64  `json:"id_deposito,omitempty"`
	DepositCode       string  `json:"cod_deposito,omitempty"`
	Name              string  `json:"nombre"`
	ExpectedUploadDay *string `json:"upd_stock,omitempty"`
	Disabled          bool    `json:"inhabilitado"`
}

// UpdateUploadDayRequest configura el día esperado de carga fuerte. Un valor
// vacío lo borra (la sucursal deja de tener día configurado).
type UpdateUploadDayRequest struct {
	Day string `json:"upd_stock"`
}
