package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
)

var stockoutHeaders = []string{
	"Día", "SKU", "Descripción", "Ambiente", "Familia", "Sucursal",
	"Fecha de quiebre", "Último ingreso", "Cantidad ingresada", "Agregado",
}

// ExportStockouts arma un .xlsx con los quiebres agrupados por día, una fila
// por producto, y lo devuelve listo para enviar como attachment.
func ExportStockouts(days []dto.StockoutDayDTO) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Quiebres"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, h := range stockoutHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("celda de cabecera: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("escribir cabecera: %w", err)
		}
	}

	rowNum := 2
	for _, day := range days {
		for _, p := range day.Products {
			values := []any{
				day.DayName, p.SKU, p.Description, p.Environment, p.Family,
				p.Warehouse, p.StockDate,
				strOrEmpty(p.LastArrivalDate), intOrEmpty(p.LastArrivalQuantity), intOrEmpty(p.Added),
			}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
				if err != nil {
					return nil, fmt.Errorf("celda de dato: %w", err)
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, fmt.Errorf("escribir fila: %w", err)
				}
			}
			rowNum++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serializar xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func strOrEmpty(s *string) any {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(n *int64) any {
	if n == nil {
		return ""
	}
	return *n
}
