// Command emitter persists sanitized Chainy domain events.
//
// On Lambda it handles one RawEventRequest per invocation; link handlers
// invoke it asynchronously. Elsewhere it runs as a CLI that emits JSON-lines
// requests read from stdin.
package main

import (
	"context"
	"fmt"
	"os"

	"chainy-backend/internal/config"
	"chainy-backend/internal/di"
	"chainy-backend/internal/infrastructure/concurrency"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

func main() {
	if concurrency.DetectEnvironment() == concurrency.EnvironmentLambda {
		runLambda()
		return
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// runLambda builds the container once per instance and serves invocations
func runLambda() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	container, err := di.NewContainer(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize container: %v\n", err)
		os.Exit(1)
	}
	defer container.Shutdown(context.Background())

	container.Logger.Info("Lambda cold start completed",
		zap.Duration("duration", container.ColdStart.GetTimeSinceColdStart()),
	)
	lambda.Start(NewHandler(container).Handle)
}
