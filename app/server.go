package main

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"todo-calendar/app/config"
	"todo-calendar/app/controllers"
	"todo-calendar/app/logging"
	"todo-calendar/app/middleware"
	"todo-calendar/app/routes"
	"todo-calendar/app/schema"
	"todo-calendar/app/services"
	"todo-calendar/app/storage"
	"todo-calendar/app/web"
)

// application owns everything built from a Config and releases it in Close.
type application struct {
	cfg     *config.Config
	logger  *log.Logger
	sink    *logging.TCPSink
	driver  neo4j.DriverWithContext
	handler http.Handler
}

func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	app := &application{cfg: cfg}

	opts := logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
	if cfg.Logging.Sink != "" {
		app.sink = logging.NewTCPSink(cfg.Logging.Sink)
		opts.Sink = app.sink
	}
	app.logger = logging.New(opts)

	repo, err := app.openRepository(ctx)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}

	handler, err := buildHandler(app.logger, repo, cfg)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	app.handler = handler
	return app, nil
}

func (a *application) openRepository(ctx context.Context) (storage.Repository, error) {
	switch a.cfg.Storage.Backend {
	case config.BackendNeo4j:
		driver, err := config.InitNeo4j(ctx, a.cfg.Storage.Neo4j)
		if err != nil {
			return nil, err
		}
		a.driver = driver
		a.logger.Info("using neo4j storage", "uri", a.cfg.Storage.Neo4j.URI)
		return storage.NewNeo4jRepository(driver, a.cfg.Storage.Neo4j.Database), nil
	default:
		a.logger.Info("using file storage", "path", a.cfg.Storage.DataFile)
		return storage.NewFileRepository(a.cfg.Storage.DataFile), nil
	}
}

// Close releases the database driver and the log sink.
func (a *application) Close(ctx context.Context) {
	if a.driver != nil {
		if err := a.driver.Close(ctx); err != nil {
			a.logger.Warn("close neo4j driver", "err", err)
		}
	}
	if a.sink != nil {
		a.sink.Close()
	}
}

// buildHandler wires the service, controllers and middleware onto a router.
func buildHandler(logger *log.Logger, repo storage.Repository, cfg *config.Config) (http.Handler, error) {
	validator, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}
	assets, err := web.New(cfg.Web.Dir)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)

	// Initialize the service layer
	todoService := services.NewTodoService(repo)

	// Initialize the controller layer
	todoController := controllers.NewTodoController(todoService, validator, logger)
	webController := controllers.NewWebController(assets, logger, cfg.Logging.Sink)

	router := mux.NewRouter()
	routes.RegisterRoutes(router, todoController, webController,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return middleware.AccessLog(logger)(metrics.Handler(router)), nil
}
