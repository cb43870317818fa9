package audit

import (
	"strings"
	"time"
)

// DayName devuelve el nombre del día de la semana en español, con mayúscula
// inicial, tal como se configura upd_stock en las sucursales.
func DayName(d time.Weekday) string {
	switch d {
	case time.Monday:
		return "Lunes"
	case time.Tuesday:
		return "Martes"
	case time.Wednesday:
		return "Miércoles"
	case time.Thursday:
		return "Jueves"
	case time.Friday:
		return "Viernes"
	case time.Saturday:
		return "Sábado"
	default:
		return "Domingo"
	}
}

// NormalizeDayName valida un nombre de día en español sin distinguir
// mayúsculas y devuelve su forma canónica ("Miércoles", "Lunes"...).
func NormalizeDayName(day string) (string, bool) {
	days := []time.Weekday{
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	}
	for _, d := range days {
		if name := DayName(d); strings.EqualFold(name, strings.TrimSpace(day)) {
			return name, true
		}
	}
	return "", false
}

// Evaluate aplica la regla de cumplimiento de cadencia de cargas:
//
//   - si el día de la fecha coincide con el día de carga fuerte configurado
//     (comparación case-insensitive del nombre en español), se exigen al menos
//     2 cargas;
//   - cualquier otro día (o sin día configurado) alcanza con 1 carga.
//
// Es una función pura: se evalúa sobre la grilla completa fecha × sucursal,
// de modo que un día sin ninguna carga aparece como incumplimiento con 0.
func Evaluate(date time.Time, expectedDay *string, uploads int) bool {
	if expectedDay == nil || strings.TrimSpace(*expectedDay) == "" {
		return uploads >= 1
	}
	heavyDay := strings.EqualFold(DayName(date.Weekday()), strings.TrimSpace(*expectedDay))
	if heavyDay {
		return uploads >= 2
	}
	return uploads >= 1
}
