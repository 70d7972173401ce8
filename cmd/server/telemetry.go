package main

import (
	"context"
	"log/slog"

	"github.com/JG-OLIVEIRA/ccompuerj-progress-backend/lib/serviceutil"
	"github.com/JG-OLIVEIRA/ccompuerj-progress-backend/lib/telemetry"
)

func InitTelemetry(ctx context.Context, verbose bool) {
	telemetry.InitSlog(verbose)

	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	tel, err := telemetry.SetupFromEnv(ctx, "server")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		tel.Shutdown(context.Background())
	}()
}
