package main

import (
	"context"
	"net/http"
	"time"

	"github.com/airtime-lab/backend/config"
	"github.com/airtime-lab/backend/internal/domain"
	"github.com/airtime-lab/backend/internal/repository"
	"github.com/airtime-lab/backend/pkg/idutil"
	"github.com/airtime-lab/backend/pkg/kafka"
	"github.com/airtime-lab/backend/pkg/logger"
	"github.com/airtime-lab/backend/pkg/pubsub"
	"github.com/airtime-lab/backend/pkg/router"
	"github.com/airtime-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs *config.Configs

	publisher pubsub.Publisher
	stoppers  []func(context.Context) error

	userRepo        repository.UserRepository
	ticketRepo      repository.TicketRepository
	showSessionRepo repository.ShowSessionRepository
	drawRepo        repository.DrawRepository
	jackpotDrawRepo repository.JackpotDrawRepository

	showSessionDomain domain.ShowSessionDomain
	drawDomain        domain.DrawDomain
	jackpotDrawDomain domain.JackpotDrawDomain
	ticketDomain      domain.TicketDomain

	router        *router.Router
	server        *http.Server
	metricsServer *http.Server
}

func (s *srv) loadConfig() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	s.configs = cfg
	s.ctx = xcontext.WithConfigs(context.Background(), *cfg)

	if err := idutil.Init(cfg.NodeID); err != nil {
		panic(err)
	}
}

func (s *srv) loadLogger() {
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(s.configs.LogLevel))
}

func (s *srv) loadDatabase() {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
}

func (s *srv) newDatabase() *gorm.DB {
	var dialector gorm.Dialector
	dsn := s.configs.Database.ConnectionString()
	switch s.configs.Database.Driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		dialector = mysql.New(mysql.Config{
			DSN:                       dsn,
			DefaultStringSize:         256,
			SkipInitializeWithVersion: false,
		})
	}

	logLevel := gormlogger.Error
	switch s.configs.Database.LogLevel {
	case "silent":
		logLevel = gormlogger.Silent
	case "warn":
		logLevel = gormlogger.Warn
	case "info":
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(logLevel),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) loadPublisher() {
	if !s.configs.Kafka.Enabled {
		xcontext.Logger(s.ctx).Warnf("Kafka is disabled, winner notifications are not published")
		return
	}

	publisher, err := kafka.NewPublisher(s.configs.Kafka.ClientID, s.configs.Kafka.Brokers())
	if err != nil {
		panic(err)
	}

	s.publisher = publisher
	s.stoppers = append(s.stoppers, publisher.Stop)
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.ticketRepo = repository.NewTicketRepository()
	s.showSessionRepo = repository.NewShowSessionRepository()
	s.drawRepo = repository.NewDrawRepository()
	s.jackpotDrawRepo = repository.NewJackpotDrawRepository()
}

func (s *srv) loadDomains() {
	s.showSessionDomain = domain.NewShowSessionDomain(s.showSessionRepo, s.drawRepo)
	s.drawDomain = domain.NewDrawDomain(s.drawRepo, s.showSessionRepo, s.ticketRepo, s.publisher)
	s.jackpotDrawDomain = domain.NewJackpotDrawDomain(s.jackpotDrawRepo, s.ticketRepo, s.userRepo, s.publisher)
	s.ticketDomain = domain.NewTicketDomain(s.ticketRepo, s.drawRepo, s.publisher)
}
