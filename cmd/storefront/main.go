package main

import (
	"context"
	"os"

	sdkapp "github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	appkg "github.com/Ejaz0000/bike-gear-client/internal/app"
)

func main() {
	sdkapp.Run(func(ctx context.Context, lg *zap.Logger, m *sdkapp.Telemetry) error {
		cfg, err := appkg.LoadConfig()
		if err != nil {
			return err
		}
		return appkg.Run(ctx, lg, cfg, os.Args[1:])
	})
}
