package app

import (
	"net/http"

	"github.com/vancomm/vacuum-planner/internal/handlers"
	"github.com/vancomm/vacuum-planner/internal/repository"
)

func (a *App) loadRoutes() {
	var (
		runs      handlers.RunStore
		operators handlers.OperatorStore
		plans     handlers.PlanCache
	)
	if a.db != nil {
		repo := repository.New(a.db)
		runs, operators = repo, repo
	}
	if a.plans != nil {
		plans = a.plans
	}

	planner := handlers.NewPlanHandler(a.logger, runs, plans, a.metrics, a.limits, a.ws)
	auth := handlers.NewAuth(a.logger, operators, a.cookies, a.jwt)

	a.router.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
	a.router.Handle("/metrics", a.metrics.Handler()).Methods(http.MethodGet)

	a.router.HandleFunc("/v1/register", auth.Register).Methods(http.MethodPost)
	a.router.HandleFunc("/v1/login", auth.Login).Methods(http.MethodPost)
	a.router.HandleFunc("/v1/logout", auth.Logout).Methods(http.MethodPost)
	a.router.HandleFunc("/v1/auth/status", auth.Status).Methods(http.MethodGet)

	a.router.HandleFunc("/v1/plan", planner.Plan).Methods(http.MethodPost)
	a.router.HandleFunc("/v1/plan/connect", planner.ConnectWS).Methods(http.MethodGet)
	a.router.HandleFunc("/v1/compare", planner.Compare).Methods(http.MethodPost)
	a.router.HandleFunc("/v1/runs", planner.ListRuns).Methods(http.MethodGet)
	a.router.HandleFunc("/v1/runs/{id:[0-9]+}", planner.FetchRun).Methods(http.MethodGet)
}
