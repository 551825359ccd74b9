package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"dnipets-backend/internal/domain/pets"
)

// undefined_column: la columna del query no existe en el schema
// desplegado. Dispara los fallbacks de schema viejo.
const codeUndefinedColumn = "42703"

// mapError normaliza errores de Postgres: columnas faltantes se marcan
// como ErrSchemaMismatch (el service decide el fallback), el resto se
// reescribe como "Error <código>: <mensaje>".
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == codeUndefinedColumn {
			return fmt.Errorf("%w: %s", pets.ErrSchemaMismatch, pgErr.Message)
		}
		return fmt.Errorf("Error %s: %s", pgErr.Code, pgErr.Message)
	}
	return err
}
