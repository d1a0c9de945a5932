package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos de error de PostgreSQL que la capa traduce a errores de dominio.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// isUniqueViolation reporta si err es una violación de índice único (23505).
func isUniqueViolation(err error) bool {
	return isPgCode(err, pgUniqueViolation)
}

// isForeignKeyViolation reporta si err es una violación de clave foránea (23503).
func isForeignKeyViolation(err error) bool {
	return isPgCode(err, pgForeignKeyViolation)
}

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
