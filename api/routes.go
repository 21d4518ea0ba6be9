package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/FBLACOMPBG2024/ledger-server/internal/handlers/v1/balance"
	"github.com/FBLACOMPBG2024/ledger-server/internal/handlers/v1/goal"
	"github.com/FBLACOMPBG2024/ledger-server/internal/handlers/v1/status"
	"github.com/FBLACOMPBG2024/ledger-server/internal/handlers/v1/sync"
	"github.com/FBLACOMPBG2024/ledger-server/internal/handlers/v1/transaction"
	"github.com/FBLACOMPBG2024/ledger-server/internal/logging"
	"github.com/FBLACOMPBG2024/ledger-server/internal/operator"
	"github.com/FBLACOMPBG2024/ledger-server/internal/service"
)

type Rest struct {
	Logger   *logrus.Logger
	Port     string
	Service  *service.Service
	Operator *operator.OperatorDelegator
}

func (r *Rest) Serve() {
	mux := http.NewServeMux()
	humaAPI := humago.New(mux, huma.DefaultConfig("Ledger Server", "1.0.0"))
	humaAPI.UseMiddleware(logging.Middleware(r.Logger))

	status.NewHandler().Register(humaAPI)

	transaction.NewCreateTransactionHandler(r.Operator).Register(humaAPI)
	transaction.NewUpdateTransactionHandler(r.Operator).Register(humaAPI)
	transaction.NewDeleteTransactionHandler(r.Operator).Register(humaAPI)
	transaction.NewBulkDeleteHandler(r.Operator).Register(humaAPI)
	transaction.NewListTransactionsHandler(r.Service.Ledger).Register(humaAPI)
	transaction.NewGetTransactionHandler(r.Service.Ledger).Register(humaAPI)

	sync.NewHandler(r.Operator).Register(humaAPI)

	balance.NewGetBalanceHandler(r.Service.Ledger).Register(humaAPI)
	balance.NewVerifyBalanceHandler(r.Service.Ledger).Register(humaAPI)
	balance.NewReconcileBalanceHandler(r.Operator).Register(humaAPI)

	goal.NewCreateGoalHandler(r.Service.Goal).Register(humaAPI)
	goal.NewListGoalsHandler(r.Service.Goal).Register(humaAPI)
	goal.NewGetGoalHandler(r.Service.Goal).Register(humaAPI)
	goal.NewDeleteGoalHandler(r.Service.Goal).Register(humaAPI)

	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           mux,
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	r.Logger.Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}
