package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/airtime-lab/backend/internal/common"
	"github.com/airtime-lab/backend/internal/middleware"
	"github.com/airtime-lab/backend/pkg/prometheus"
	"github.com/airtime-lab/backend/pkg/router"
	"github.com/airtime-lab/backend/pkg/xcontext"
	"github.com/gin-gonic/gin"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	s.server = &http.Server{
		Addr:              s.configs.ApiServer.Address(),
		Handler:           middleware.AllowCors(s.configs.ApiServer.AllowedOrigins)(s.router.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.metricsServer = &http.Server{
		Addr:              s.configs.PrometheusServer.Address(),
		Handler:           newMetricsHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		xcontext.Logger(s.ctx).Infof("Starting server on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		xcontext.Logger(s.ctx).Infof("Starting prometheus on %s", s.metricsServer.Addr)
		if err := s.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := s.server.Shutdown(shutdownCtx)
		if metricsErr := s.metricsServer.Shutdown(shutdownCtx); metricsErr != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot stop prometheus: %v", metricsErr)
		}
		for _, stopper := range s.stoppers {
			if stopErr := stopper(shutdownCtx); stopErr != nil {
				xcontext.Logger(s.ctx).Errorf("Cannot stop component: %v", stopErr)
			}
		}

		xcontext.Logger(s.ctx).Infof("Server stopped")
		return err
	})

	return g.Wait()
}

func (s *srv) loadRouter() {
	if s.configs.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger)
	s.router.AddCloser(middleware.Prometheus)
	s.router.Use(middleware.WithStartTime)
	s.router.Use(middleware.ResolveUserID)

	// Operator APIs
	operatorRouter := s.router.Branch()
	operatorRouter.Use(middleware.Authenticate)
	{
		// Session API
		router.POST(operatorRouter, "/startShowSession", s.showSessionDomain.Start)
		router.POST(operatorRouter, "/pauseShowSession", s.showSessionDomain.Pause)
		router.POST(operatorRouter, "/resumeShowSession", s.showSessionDomain.Resume)
		router.POST(operatorRouter, "/endShowSession", s.showSessionDomain.End)

		// Draw API
		router.POST(operatorRouter, "/createDraw", s.drawDomain.Create)
		router.POST(operatorRouter, "/conductDraw", s.drawDomain.ConductDraw)
		router.POST(operatorRouter, "/conductPendingDraw", s.drawDomain.ConductPendingDraw)
		router.POST(operatorRouter, "/redraw", s.drawDomain.Redraw)
		router.POST(operatorRouter, "/completeDraw", s.drawDomain.CompleteDraw)
		router.POST(operatorRouter, "/cancelDraw", s.drawDomain.CancelDraw)

		// Jackpot API
		router.POST(operatorRouter, "/createJackpotDraw", s.jackpotDrawDomain.Create)
		router.POST(operatorRouter, "/conductJackpotDraw", s.jackpotDrawDomain.Conduct)
		router.POST(operatorRouter, "/redrawJackpotDraw", s.jackpotDrawDomain.Redraw)
		router.POST(operatorRouter, "/cancelJackpotDraw", s.jackpotDrawDomain.Cancel)

		// Ticket API
		router.POST(operatorRouter, "/issueTickets", s.ticketDomain.Issue)
		router.POST(operatorRouter, "/issueTicketsFromPayment", s.ticketDomain.IssueFromPayment)
		router.POST(operatorRouter, "/invalidateTicket", s.ticketDomain.Invalidate)
		router.GET(operatorRouter, "/getMyTickets", s.ticketDomain.GetMyTickets)
	}

	// Public APIs
	publicRouter := s.router.Branch()
	{
		router.GET(publicRouter, "/getShowSession", s.showSessionDomain.Get)
		router.GET(publicRouter, "/getDraw", s.drawDomain.GetDrawByID)
		router.GET(publicRouter, "/getDrawsBySession", s.drawDomain.GetDrawsBySession)
		router.GET(publicRouter, "/getDrawStats", s.drawDomain.GetDrawStats)
		router.GET(publicRouter, "/getJackpotDraw", s.jackpotDrawDomain.Get)
		router.GET(publicRouter, "/getListJackpotDraw", s.jackpotDrawDomain.GetList)
	}
}

func newMetricsHandler() http.Handler {
	cs := []prom.Collector{}
	for _, counter := range common.PromCounters {
		cs = append(cs, counter)
	}

	for _, histogram := range common.PromHistograms {
		cs = append(cs, histogram)
	}

	return prometheus.NewHandler(cs...)
}
