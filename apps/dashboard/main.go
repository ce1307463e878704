package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"

	echodash "github.com/trezcool/mediateam/apps/dashboard/echo"
	"github.com/trezcool/mediateam/core"
	"github.com/trezcool/mediateam/core/application"
	"github.com/trezcool/mediateam/core/auth"
	"github.com/trezcool/mediateam/core/college"
	"github.com/trezcool/mediateam/core/query"
	apisvc "github.com/trezcool/mediateam/services/api"
	cachesvc "github.com/trezcool/mediateam/services/cache"
	logsvc "github.com/trezcool/mediateam/services/logger"
	limitsvc "github.com/trezcool/mediateam/services/ratelimit"
	sessionsvc "github.com/trezcool/mediateam/services/session"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DASHBOARD : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	defer logger.Close()

	cache, closeCache, err := cachesvc.New(conf.Cache)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up cache: %v", err), err)
	}
	defer func() {
		if err := closeCache(); err != nil {
			logger.Error("closing cache", err)
		}
	}()

	var limiter core.Limiter = limitsvc.NewMemoryLimiter()
	if conf.Cache.RedisURL != "" {
		client, err := cachesvc.NewRedisClient(conf.Cache.RedisURL)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up rate limiter: %v", err), err)
		}
		defer client.Close()
		limiter = limitsvc.NewRedisLimiter(client)
	}

	sessions, err := sessionsvc.NewStore(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up sessions: %v", err), err)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	auth.InitValidators(validate, translator)
	college.InitValidators(validate, translator)

	// every request carries its session holder; the client reads the token from there
	api := apisvc.NewClient(conf.Backend, apisvc.BearerAuth(apisvc.ContextToken))
	queries := query.NewClient(cache)

	authSvc := auth.NewService(api, queries, validate, application.Resource, college.Resource)
	appSvc := application.NewService(api, queries)
	collegeSvc := college.NewService(api, queries, validate)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("backend").Set(conf.Backend.BaseURL)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start Dashboard Service

	server, err := echodash.NewServer(echodash.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Translator: translator,
		Sessions:   sessions,
		Limiter:    limiter,
		AuthSvc:    authSvc,
		AppSvc:     appSvc,
		CollegeSvc: collegeSvc,
	})
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up server: %v", err), err)
	}

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
