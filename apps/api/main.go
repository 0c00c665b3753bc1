package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	_ "time/tzdata" // reference timezones without system zoneinfo

	echoapi "github.com/Shakso89/pokeayman-16-sub001/apps/api/echo"
	"github.com/Shakso89/pokeayman-16-sub001/apps/container"
	"github.com/Shakso89/pokeayman-16-sub001/core"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	c, err := container.New(conf, container.Options{LogPrefix: "API : ", Migrate: true})
	if err != nil {
		log.Fatalf("setting up dependencies: %v", err)
	}
	logger := c.Logger
	defer func() {
		if err = c.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing dependencies: %v", err), err)
		}
	}()

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("db").Set(conf.Database.Engine)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		conf.Server.Address,
		&echoapi.Deps{
			Conf:          conf,
			Logger:        logger,
			Validate:      c.Validate,
			Translator:    c.Translator,
			Auth:          echoapi.NewAuthFromConfig(conf),
			OrgSvc:        c.OrgSvc,
			PoolSvc:       c.PoolSvc,
			AssignmentSvc: c.AssignmentSvc,
			LedgerSvc:     c.LedgerSvc,
			WheelSvc:      c.WheelSvc,
			RewardSvc:     c.RewardSvc,
			Metrics:       c.Metrics.Handler(),
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
