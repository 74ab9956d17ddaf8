package cmd

import (
	"context"

	"github.com/anchore/anchore-ctl/internal/app"
	"github.com/anchore/anchore-ctl/internal/errors"
	"github.com/anchore/anchore-ctl/internal/logging"
)

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logError   = logging.UserError
)

// fail logs the kind and cause of err, tells the user the operation failed
// and returns the error surfaced to main.
func fail(msg string, err error) error {
	logging.Error(msg, "kind", errors.KindOf(err).String(), "error", err)
	logError("operation failed")
	return errors.OperationFailed(err)
}

// appFrom returns the App attached by the root command.
func appFrom(ctx context.Context) (*app.App, error) {
	a, ok := app.FromContext(ctx)
	if !ok {
		return nil, errors.New(errors.KindUnknown, "configuration not loaded")
	}
	return a, nil
}
