package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return hasCode(err, "23505")
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	return hasCode(err, "23503")
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}

// isUUID indica si s puede compararse con una columna UUID. Un texto que no lo es no identifica
// ninguna fila: se responde "no encontrado" sin consultar (PostgreSQL fallaría con 22P02).
func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// pageArgs normaliza limit/offset: limit <= 0 significa sin límite (LIMIT ALL).
func pageArgs(limit, offset int) (any, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return nil, offset
	}
	return limit, offset
}
