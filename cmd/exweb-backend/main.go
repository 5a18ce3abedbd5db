package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/exweb/exweb-backend/pkg/auth"
	"github.com/exweb/exweb-backend/pkg/config"
	"github.com/exweb/exweb-backend/pkg/requestlogger"
	"github.com/exweb/exweb-backend/pkg/service/core"
	apiclients "github.com/exweb/exweb-backend/pkg/service/core/api"
	"github.com/exweb/exweb-backend/pkg/service/core/handlers"
	"github.com/exweb/exweb-backend/pkg/service/core/routes"
)

var configFilePath = flag.String("config", "config.yaml", "path to config file")

var opErrs = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "exweb_backend",
	Name:      "upstream_errors",
}, []string{"operation"})

func main() {
	flag.Parse()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	fileParts, err := config.ProcessConfigPath(*configFilePath)
	if err != nil {
		log.Fatal().Err(err).Msg("processing config path")
	}

	cfg, err := config.NewFileSystemLoader().Load(fileParts.FileName, fileParts.Path, "EXWEB", config.NewDefaultEnvBinder())
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}

	err = cfg.Validate()
	if err != nil {
		log.Fatal().Err(err).Msg("validating config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("parsing log level")
	}
	log = log.Level(level)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	codec, err := auth.NewTokenCodec(
		cfg.Security.SigningKey,
		cfg.Security.Algorithm,
		time.Duration(cfg.Security.TokenExpiryMins)*time.Minute,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("setting up token codec")
	}

	creds := auth.NewAzureCredentialProvider(
		cfg.Oauth.ClientID,
		cfg.Oauth.ClientSecret,
		cfg.Oauth.TenantID,
		log.With().Str("subsystem", "credentials").Logger(),
	)

	apiClients := apiclients.NewClients(creds, opErrs, cfg, log.With().Str("subsystem", "api_clients").Logger())
	services := core.NewServices(
		core.NewAuthService(codec, creds),
		core.NewCalendarService(apiClients.CalendarAPI),
		core.NewContactsService(apiClients.ContactsAPI),
		core.NewMailService(apiClients.MailAPI, apiClients.MailDetailAPI),
	)

	h := handlers.NewHandlers(services)

	sessionMiddleware := auth.Middleware(codec, log.With().Str("subsystem", "auth").Logger())

	router := chi.NewRouter()
	router.Use(requestlogger.Middleware(
		log.With().Str("subsystem", "http").Logger(),
		"/health",
		"/internal/metrics",
	))

	routes.Add(router, cfg.Cors.AllowedOrigins,
		routes.NewAuthRoutes(routes.NewAuthEndpoints(log, h.AuthHandler)),
		routes.NewCalendarRoutes(routes.NewCalendarEndpoints(log, h.CalendarHandler), sessionMiddleware),
		routes.NewContactsRoutes(routes.NewContactsEndpoints(log, h.ContactsHandler), sessionMiddleware),
		routes.NewMailRoutes(routes.NewMailEndpoints(log, h.MailHandler), sessionMiddleware),
		routes.NewMetricsRoutes(routes.NewMetricsEndpoints(prom())),
		routes.NewHealthRoutes(),
	)

	if cfg.Debug {
		if err := routes.Print(router, os.Stdout); err != nil {
			log.Warn().Err(err).Msg("printing routes")
		}
	}

	log.Info().Msgf("Listening on %s", cfg.Server.ListenAddr())

	server := http.Server{
		Addr:    cfg.Server.ListenAddr(),
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("shutdown error")
	}
}

func prom(cols ...prometheus.Collector) *prometheus.Registry {
	r := prometheus.NewRegistry()
	r.MustRegister(opErrs)
	r.MustRegister(collectors.NewGoCollector())
	r.MustRegister(cols...)

	return r
}
