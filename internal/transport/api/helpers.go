package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fsdevblog/seamless-karma/internal/domain"
	"github.com/fsdevblog/seamless-karma/pkg/currency"
	"github.com/gin-gonic/gin"
)

// abortWithServiceError транслирует доменную таксономию ошибок в http статусы.
// Сырые ошибки хранилища наружу не уходят: всё, что не распознано, прячется
// за приватной 500.
func abortWithServiceError(c *gin.Context, model string, err error) {
	var valErr *domain.ValidationError
	switch {
	case errors.As(err, &valErr):
		_ = c.AbortWithError(http.StatusBadRequest, valErr).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrRecordNotFound):
		_ = c.AbortWithError(http.StatusNotFound,
			fmt.Errorf("%s not found", model)).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrDuplicateKey):
		_ = c.AbortWithError(http.StatusConflict,
			fmt.Errorf("%s with such unique attributes already exists", model)).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrForeignKeyViolation):
		_ = c.AbortWithError(http.StatusUnprocessableEntity,
			fmt.Errorf("%s references a missing or still referenced record", model)).SetType(gin.ErrorTypePublic)
	default:
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
	}
}

// parseIDParam числовой path-параметр. Нечисловое значение прерывает запрос с 400.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		_ = c.AbortWithError(http.StatusBadRequest,
			fmt.Errorf("invalid %s", name)).SetType(gin.ErrorTypePublic)
		return 0, false
	}
	return id, true
}

// parseDateParam дата в формате ISO-8601 "YYYY-MM-DD".
func parseDateParam(c *gin.Context, raw string) (time.Time, bool) {
	date, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		_ = c.AbortWithError(http.StatusBadRequest,
			fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)).SetType(gin.ErrorTypePublic)
		return time.Time{}, false
	}
	return date, true
}

// parseBoolQuery флаг из query string; отсутствие или мусор трактуются как false.
func parseBoolQuery(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	if err != nil {
		return false
	}
	return v
}

// parseMoney предполагает что строка уже прошла binding тег money.
func parseMoney(s string) currency.Amount {
	return currency.MustFromString(s)
}

func parseMoneyPtr(s *string) *currency.Amount {
	if s == nil {
		return nil
	}
	a := parseMoney(*s)
	return &a
}
