package dto

// SnapshotRow es una fila de snapshot ya decodificada por el colaborador de
// lectura (Excel u otro). Los punteros nil representan celdas vacías o
// ilegibles; el núcleo nunca ve tipos de celda crudos.
type SnapshotRow struct {
	DepositName *string
	DepositCode *string
	DepositID   *int64
	MasterID    *string
	SKU         *string
	Color       *string
	Description *string
	Environment *string
	Family      *string
	Level3      *string
	Level4      *string
	Quantity    *int64
}

// UploadAcceptedResponse respuesta del endpoint de subida: la carga quedó
// aceptada y corre en segundo plano.
type UploadAcceptedResponse struct {
	EventID int64  `json:"evento_id"`
	Message string `json:"mensaje"`
}

// LoadStatusResponse estado de una carga para los pollers.
type LoadStatusResponse struct {
	State        string `json:"estado"`
	Processed    int    `json:"procesados"`
	Total        int    `json:"total"`
	Percent      int    `json:"porcentaje"`
	Observations string `json:"observaciones,omitempty"`
}
