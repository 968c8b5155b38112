package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/koding/multiconfig"
	"github.com/sirupsen/logrus"

	"github.com/mampfes/ha-epex-spot-sensor/pkg/app"
	"github.com/mampfes/ha-epex-spot-sensor/pkg/config"
	"github.com/mampfes/ha-epex-spot-sensor/pkg/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGQUIT, syscall.SIGTERM)
	defer stop()
	err := Run(ctx)
	if err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func Run(ctx context.Context) error {
	config := &config.CliConfig{}
	err := multiconfig.New().Load(config)
	if err != nil {
		return err
	}
	lvl, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		return fmt.Errorf("error setting logrus loglevel: %w", err)
	}
	logrus.SetLevel(lvl)
	logrus.Info("starting epexsensor ", version.Version)

	app, err := app.New(config)
	if err != nil {
		return err
	}

	err = app.Start(ctx)
	if err != nil {
		return err
	}

	app.Wait()
	return nil
}
