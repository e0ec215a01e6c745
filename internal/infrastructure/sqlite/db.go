// Package sqlite implementa los puertos de persistencia sobre un archivo SQLite (sqlx + go-sqlite3)
// para despliegues de un solo nodo. Las transacciones abren con BEGIN IMMEDIATE: el bloqueo de escritura
// de toda la base sustituye al SELECT ... FOR UPDATE de PostgreSQL.
package sqlite

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// DBTX es lo común a *sqlx.DB y *sqlx.Tx.
type DBTX interface {
	sqlx.ExtContext
}

// DSN arma la cadena de conexión: WAL, espera de 5s ante bloqueo, transacciones inmediatas y FKs activas.
func DSN(path string) string {
	return "file:" + path + "?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate&_foreign_keys=on"
}

// Open abre la base, verifica la conexión y aplica el esquema.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

// Se compara el mensaje y no sqlite3.Error: ese tipo solo existe cuando el driver se compila con cgo.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// pageArgs normaliza limit/offset: en SQLite LIMIT -1 equivale a sin límite.
func pageArgs(limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return -1, offset
	}
	return limit, offset
}

// utc normaliza los instantes para que las comparaciones de texto en SQLite sean coherentes.
func utc(t time.Time) time.Time {
	return t.UTC()
}
