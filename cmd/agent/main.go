package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mpavic/stagehand/internal/agent"
	"github.com/mpavic/stagehand/internal/shared/logging"
)

func main() {
	var (
		addr       = flag.String("addr", ":9090", "listen address")
		reflection = flag.Bool("reflection", true, "enable grpc reflection")
		logLevel   = flag.String("log-level", "info", "log level")
		logFormat  = flag.String("log-format", "json", "log format (json or console)")
	)
	flag.Parse()

	logger := logging.New(*logLevel, *logFormat)

	server := agent.NewServer(agent.Config{
		Addr:             *addr,
		EnableReflection: *reflection,
		KeepaliveMinTime: 30 * time.Second,
	}, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Agent server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	server.Stop()
	logger.Info("Agent stopped", "addr", *addr)
}
