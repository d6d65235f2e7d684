// Command gamevault scans a game library, enriches it from the Steam catalog
// and serves it over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel/baggage"
)

const appVersion = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if m, err := baggage.NewMember("app.version", appVersion); err == nil {
		if b, err := baggage.New(m); err == nil {
			ctx = baggage.ContextWithBaggage(ctx, b)
		}
	}

	app := &appContext{}
	err := newRootCommand(app).ExecuteContext(ctx)
	app.close(context.WithoutCancel(ctx))
	stop()

	if err != nil {
		if !errors.Is(err, context.Canceled) {
			_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
