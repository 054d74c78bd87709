package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Kardex-api/internal/domain"
)

// mapConcurrencyError traduce fallos de serialización y deadlocks de PostgreSQL
// al error de dominio reintentable. Cualquier otro error pasa sin tocar.
func mapConcurrencyError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return domain.ErrConcurrentModification
		}
	}
	return err
}
