package dto

import "time"

// DateLayout formato de fechas de negocio en requests y responses.
const DateLayout = "2006-01-02"

// FormatDate serializa una fecha de negocio como YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parsea una fecha de negocio YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
