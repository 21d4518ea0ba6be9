package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/FBLACOMPBG2024/ledger-server/api"
	"github.com/FBLACOMPBG2024/ledger-server/internal/bankfeed"
	"github.com/FBLACOMPBG2024/ledger-server/internal/config"
	"github.com/FBLACOMPBG2024/ledger-server/internal/events"
	"github.com/FBLACOMPBG2024/ledger-server/internal/logging"
	"github.com/FBLACOMPBG2024/ledger-server/internal/operator"
	"github.com/FBLACOMPBG2024/ledger-server/internal/operator/actions"
	"github.com/FBLACOMPBG2024/ledger-server/internal/service"
	"github.com/FBLACOMPBG2024/ledger-server/internal/storage"
)

func main() {
	logger := logging.SetupLogging()
	logrus.Info("ledger-server starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	ctx := context.Background()
	dbStorage, err := storage.NewStorage(ctx, envConfig)
	if err != nil {
		logrus.WithError(err).Fatal("storage.NewStorage")
		return
	}
	defer func() {
		if err := dbStorage.Disconnect(ctx); err != nil {
			logger.WithError(err).Error("storage.Disconnect")
		}
	}()

	feedClient, err := bankfeed.NewAPIClient(nil, envConfig.BankFeedURL)
	if err != nil {
		logrus.WithError(err).Fatal("bankfeed.NewAPIClient")
		return
	}

	svc := service.NewService(dbStorage)

	delegator := operator.NewOperatorDelegator(&actions.Deps{
		Storage: dbStorage,
		Feed:    feedClient,
		Events:  events.NewLogSink(logger),
		Logger:  logger,
	}, envConfig.OperatorWorkers)
	delegator.Start()
	defer delegator.Stop()

	httpRest := api.Rest{
		Logger:   logger,
		Port:     envConfig.Port,
		Service:  svc,
		Operator: delegator,
	}
	httpRest.Serve()
}
