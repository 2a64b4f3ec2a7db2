package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/wtask/linechat/internal/chat/server"
)

func main() {
	conf, err := configure(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	level := slog.LevelInfo
	if conf.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With("app", BinaryName, "version", Version)
	logger.Info("Started with config", "config", fmt.Sprintf("%+v", conf))

	srv, err := server.Listen(
		conf.IPAddress,
		int(conf.Port),
		server.WithLogger(logger),
		server.WithChunkSize(conf.ChunkSize),
		server.WithEcho(!conf.NoEcho),
	)
	if err != nil {
		logger.Error("Unable to listen TCP", "error", err)
		os.Exit(1)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	failure := make(chan error, 1)
	go func() {
		failure <- srv.Run()
	}()
	logger.Info("Chat server has started, press Ctrl-C to stop", "addr", srv.Addr().String())

	select {
	case s := <-sig:
		logger.Info("Got stop signal", "signal", s.String())
		srv.Close()
		logger.Info("Chat server stopped, bye")
	case err := <-failure:
		logger.Error("Chat server failed", "error", err)
		os.Exit(1)
	}
}
