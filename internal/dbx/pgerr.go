package dbx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/onorbumbum/noteshare.space/internal/common"
)

// MapConstraint converts PostgreSQL integrity violations (SQLSTATE class 23:
// unique, foreign key, not null) into common.ErrConstraintViolation so that
// callers can match them with errors.Is. Other errors pass through unchanged.
func MapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return fmt.Errorf("%w: %s", common.ErrConstraintViolation, pgErr.Message)
	}
	return err
}
