package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound indicates the row does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict indicates a conditional write matched no row.
	ErrConflict = errors.New("repository: write conflict")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("repository: duplicate")
)

// translate maps driver level errors onto the repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
