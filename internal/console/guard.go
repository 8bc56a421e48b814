package console

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Guard runs action and, if it fails, logs the error and prints it in red so
// the menu loop can carry on. Closed input and cancellation are returned
// because they end the session.
func Guard(ctx context.Context, log *zap.Logger, out io.Writer, color bool, name string, action func(context.Context) error) error {
	err := action(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInputClosed) || errors.Is(err, context.Canceled) {
		return err
	}

	log.Error("action failed", zap.String("action", name), zap.Error(err))
	fmt.Fprintln(out, paint(color, colorRed, "Error: "+err.Error()))
	return nil
}
