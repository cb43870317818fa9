package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayName(t *testing.T) {
	// 2024-06-03 es lunes.
	names := []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}
	for i, want := range names {
		assert.Equal(t, want, DayName(day(2024, 6, 3+i).Weekday()))
	}
}

func TestNormalizeDayName(t *testing.T) {
	got, ok := NormalizeDayName("miércoles")
	assert.True(t, ok)
	assert.Equal(t, "Miércoles", got)

	got, ok = NormalizeDayName("  SÁBADO ")
	assert.True(t, ok)
	assert.Equal(t, "Sábado", got)

	_, ok = NormalizeDayName("feriado")
	assert.False(t, ok)
}

func TestEvaluate(t *testing.T) {
	monday := day(2024, 6, 3)
	lunes := "Lunes"
	martes := "Martes"
	empty := ""

	tests := []struct {
		name     string
		date     time.Time
		expected *string
		uploads  int
		want     bool
	}{
		{"día fuerte con dos cargas cumple", monday, &lunes, 2, true},
		{"día fuerte con una carga no cumple", monday, &lunes, 1, false},
		{"día fuerte sin cargas no cumple", monday, &lunes, 0, false},
		{"día común con una carga cumple", monday, &martes, 1, true},
		{"día común sin cargas no cumple", monday, &martes, 0, false},
		{"sin día configurado basta una carga", monday, nil, 1, true},
		{"sin día configurado y sin cargas no cumple", monday, nil, 0, false},
		{"día configurado vacío equivale a no configurado", monday, &empty, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.date, tt.expected, tt.uploads))
		})
	}
}

func TestEvaluate_ComparacionInsensibleAMayusculas(t *testing.T) {
	monday := day(2024, 6, 3)
	lower := "lunes"
	assert.False(t, Evaluate(monday, &lower, 1), "coincide aunque el configurado esté en minúsculas")
	assert.True(t, Evaluate(monday, &lower, 2))
}
