package pgrepo

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fsdevblog/seamless-karma/internal/domain"
)

const (
	foreignKeyViolationCode = "23503"
	uniqueViolationCode     = "23505"
)

// errNoRowsAffected маркер для Exec запросов, не зацепивших ни одной строки.
// convertErr превращает его в domain.ErrRecordNotFound.
var errNoRowsAffected = pgx.ErrNoRows

// convertErr преобразует ошибку хранилища к стандартному виду слоя репозитория.
// Наружу никогда не уходит сырая ошибка драйвера, только доменная:
//   - pgx.ErrNoRows -> domain.ErrRecordNotFound;
//   - нарушение уникального ключа (23505) -> domain.ErrDuplicateKey;
//   - нарушение внешнего ключа (23503) -> domain.ErrForeignKeyViolation;
//   - все остальное -> domain.ErrUnknown с оригинальным сообщением.
func convertErr(err error, format string, formatArgs ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, formatArgs...)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("[repository/%s] %w", msg, domain.ErrRecordNotFound)
	}

	var pgErr *pgconn.PgError
	errType := domain.ErrUnknown

	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			errType = domain.ErrDuplicateKey
		case foreignKeyViolationCode:
			errType = domain.ErrForeignKeyViolation
		}
	}

	return fmt.Errorf("[repository/%s] %w: %s", msg, errType, err.Error())
}
