package excel

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
)

// Posiciones de columna del layout de snapshot. El archivo no trae cabeceras
// confiables, así que la decodificación es posicional.
const (
	colDeposit     = 0
	colDepositCode = 1
	colDepositID   = 2
	colMasterID    = 3
	colSKU         = 4
	colColor       = 5
	colDescription = 6
	colEnvironment = 7
	colFamily      = 8
	colLevel3      = 9
	colLevel4      = 10
	colQuantity    = 11
)

// ReadSnapshot decodifica la primera hoja de un .xlsx de snapshot a filas
// neutrales. La primera fila es cabecera y se descarta. Celdas vacías o con
// tipo inesperado quedan en nil; filtrar filas inválidas es tarea del núcleo
// de ingesta, no del lector.
func ReadSnapshot(r io.Reader) ([]dto.SnapshotRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx sin hojas")
	}

	rawRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheets[0], err)
	}
	if len(rawRows) <= 1 {
		return nil, nil
	}

	rows := make([]dto.SnapshotRow, 0, len(rawRows)-1)
	for _, raw := range rawRows[1:] {
		rows = append(rows, dto.SnapshotRow{
			DepositName: cellString(raw, colDeposit),
			DepositCode: cellString(raw, colDepositCode),
			DepositID:   cellInt64(raw, colDepositID),
			MasterID:    cellString(raw, colMasterID),
			SKU:         cellString(raw, colSKU),
			Color:       cellString(raw, colColor),
			Description: cellString(raw, colDescription),
			Environment: cellString(raw, colEnvironment),
			Family:      cellString(raw, colFamily),
			Level3:      cellString(raw, colLevel3),
			Level4:      cellString(raw, colLevel4),
			Quantity:    cellInt64(raw, colQuantity),
		})
	}
	return rows, nil
}

// cellString celda como texto recortado; nil si falta o está vacía.
func cellString(row []string, idx int) *string {
	if idx >= len(row) {
		return nil
	}
	s := strings.TrimSpace(row[idx])
	if s == "" {
		return nil
	}
	return &s
}

// cellInt64 celda numérica tolerante: acepta enteros, decimales con parte
// fraccionaria nula ("12.0") y separador de miles. nil si no es numérica.
func cellInt64(row []string, idx int) *int64 {
	s := cellString(row, idx)
	if s == nil {
		return nil
	}
	clean := strings.ReplaceAll(*s, ",", "")
	if n, err := strconv.ParseInt(clean, 10, 64); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return nil
	}
	n := int64(math.Round(f))
	if math.Abs(f-float64(n)) > 1e-9 {
		return nil
	}
	return &n
}
