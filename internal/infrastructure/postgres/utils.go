package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Código SQLSTATE que Postgres devuelve al chocar contra un índice UNIQUE.
const codeUniqueViolation = "23505"

// isUniqueViolation reconoce choques contra constraints únicos para que los
// repositorios los traduzcan a errores de dominio.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}
