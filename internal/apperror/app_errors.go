package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrStorage marks every failure of the result store.
	ErrStorage = errors.New("storage error")
	// ErrStorageUnavailable is returned while the service runs without a store.
	ErrStorageUnavailable = fmt.Errorf("%w: store is not configured", ErrStorage)

	ErrInvalidPayload = errors.New("invalid payload")
)
