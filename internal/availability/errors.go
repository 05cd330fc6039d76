package availability

import (
	"errors"
	"fmt"
)

// ErrInvalidInput некорректный запрос, возвращается до чтения данных.
var ErrInvalidInput = errors.New("invalid availability request")

// DataAccessError ошибка хранилища: результат неизвестен, а не пуст.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("availability: %s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// IsDataAccess проверяет, есть ли в err DataAccessError.
func IsDataAccess(err error) bool {
	var dae *DataAccessError
	return errors.As(err, &dae)
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
