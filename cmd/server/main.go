package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/pongd/pkg/config"
	"github.com/cbodonnell/pongd/pkg/lobby"
	"github.com/cbodonnell/pongd/pkg/log"
	"github.com/cbodonnell/pongd/pkg/matchmaking"
	"github.com/cbodonnell/pongd/pkg/metrics"
	"github.com/cbodonnell/pongd/pkg/network"
	"github.com/cbodonnell/pongd/pkg/users"
	"github.com/cbodonnell/pongd/pkg/version"
	"github.com/cbodonnell/pongd/pkg/workers"
	"github.com/joho/godotenv"
)

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	logLevel := flag.String("log-level", "info", "Log level")
	gameConfig := flag.String("game-config", "", "Path to the game tuning ini file")
	maxConnections := flag.Int("max-connections-per-ip", network.DefaultMaxConnectionsPerAddress, "Open sockets allowed per source address")
	tlsCert := flag.String("tls-cert", "", "TLS certificate file")
	tlsKey := flag.String("tls-key", "", "TLS key file")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}
	log.SetDefaultLogger(log.New(os.Stdout, parsedLogLevel))
	log.Info("Log level set to %s", parsedLogLevel)

	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file loaded: %v", err)
	}

	if *gameConfig == "" {
		*gameConfig = os.Getenv("PONGD_GAME_CONFIG")
	}
	cfg, err := config.Load(*gameConfig)
	if err != nil {
		panic(fmt.Sprintf("Failed to load game config: %v", err))
	}

	usersTimeout := users.DefaultTimeout
	if v := os.Getenv("PONGD_USERS_SERVICE_TIMEOUT"); v != "" {
		usersTimeout, err = time.ParseDuration(v)
		if err != nil {
			panic(fmt.Sprintf("Failed to parse PONGD_USERS_SERVICE_TIMEOUT: %v", err))
		}
	}

	log.Info("Starting server version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	usersClient := users.NewClient(users.NewClientOptions{
		BaseURL: os.Getenv("PONGD_USERS_SERVICE_URL"),
		Timeout: usersTimeout,
	})

	if err := workers.ClearStaleQueue(ctx, usersClient); err != nil {
		log.Warn("Failed to clear stale queue flags: %v", err)
	}

	reportWorker := workers.NewReportWorker(workers.NewReportWorkerOptions{
		Users:   usersClient,
		Timeout: usersTimeout,
	})
	reportDone := make(chan struct{})
	go func() {
		defer close(reportDone)
		reportWorker.Start(ctx)
	}()

	allocator := lobby.NewAllocator(lobby.NewAllocatorOptions{
		Context:  ctx,
		Settings: cfg.Game,
		Reporter: reportWorker,
		Metrics:  m,
	})

	queue := matchmaking.NewQueue()
	queue.SetObserver(m.QueueSize)

	scheduler := matchmaking.NewScheduler(matchmaking.NewSchedulerOptions{
		Queue:         queue,
		Allocator:     allocator,
		Interval:      cfg.MatchmakingInterval,
		RankTolerance: cfg.RankTolerance,
	})
	go scheduler.Start(ctx)

	gateway := network.NewGateway(network.NewGatewayOptions{
		MaxConnectionsPerAddress: *maxConnections,
		Queue:                    queue,
		Matches:                  allocator,
		Users:                    usersClient,
		Reporter:                 reportWorker,
		Metrics:                  m,
	})

	var tls *network.TLSConfig
	if *tlsCert != "" || *tlsKey != "" {
		tls = &network.TLSConfig{CertFile: *tlsCert, KeyFile: *tlsKey}
	}
	if err := gateway.Start(ctx, *port, tls); err != nil {
		panic(fmt.Sprintf("Gateway failed: %v", err))
	}

	// matches close with the context; wait for the last reports to go out
	<-reportDone
	log.Info("Server stopped")
}
