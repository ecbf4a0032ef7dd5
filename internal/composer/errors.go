// internal/composer/errors.go
package composer

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the parent of every non-recoverable setup error.
var ErrConfiguration = errors.New("meal composer configuration error")

var (
	ErrEmptyCatalog      = fmt.Errorf("%w: no foods available after restriction filter", ErrConfiguration)
	ErrUnknownMealType   = fmt.Errorf("%w: unknown meal type", ErrConfiguration)
	ErrInvalidParameters = fmt.Errorf("%w: invalid search parameters", ErrConfiguration)
)
