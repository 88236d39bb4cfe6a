package integration

import (
	"fmt"

	"github.com/hookhubio/api/pkg/domain/shared"
)

// Domain errors for integration.
var (
	ErrIntegrationNotFound = fmt.Errorf("%w: integration not found", shared.ErrNotFound)
	ErrAlreadyRegistered   = fmt.Errorf("%w: integration already registered", shared.ErrAlreadyExists)

	ErrNotConnected = fmt.Errorf("%w: integration is not connected", shared.ErrConflict)

	ErrInvalidDefinition = fmt.Errorf("%w: invalid integration definition", shared.ErrValidation)
	ErrInvalidType       = fmt.Errorf("%w: invalid integration type", shared.ErrValidation)
	ErrInvalidCategory   = fmt.Errorf("%w: invalid integration category", shared.ErrValidation)
	ErrInvalidStatus     = fmt.Errorf("%w: invalid integration status", shared.ErrValidation)
	ErrConfigInvalid     = fmt.Errorf("%w: invalid integration config", shared.ErrValidation)
)

// ConfigFieldError reports a missing or malformed required config field.
func ConfigFieldError(field, reason string) error {
	return fmt.Errorf("%w: field %q %s", ErrConfigInvalid, field, reason)
}
