package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/wtask/linechat/internal/chat/client"
	"github.com/wtask/linechat/internal/chat/server"
	"github.com/wtask/linechat/internal/term"
)

func main() {
	conf, err := configure(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}
	os.Exit(run(conf))
}

func run(conf Configuration) int {
	logger, closeLog, err := openLog(conf.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to open log:", err)
		return 1
	}
	defer closeLog()
	logger.Info("Started with config", "config", fmt.Sprintf("%+v", conf))

	port := int(conf.Port)
	if conf.Listen {
		srv, err := server.Listen(conf.Host, port, server.WithLogger(logger.With("component", "server")))
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to start chat server:", err)
			return 1
		}
		defer srv.Close()
		go func() {
			if err := srv.Run(); err != nil {
				logger.Error("Chat server failed", "error", err)
			}
		}()
	}

	transport, err := client.Connect(conf.Host, port, conf.Username, client.WithLogger(logger.With("component", "client")))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to connect:", err)
		return 1
	}
	defer transport.Close()
	transport.Start()
	if err := transport.SendConnectionMessage(); err != nil {
		fmt.Fprintln(os.Stderr, "Unable to join the chat:", err)
		return 1
	}
	transport.Incoming().Push(fmt.Sprintf("server: Connected to %s:%d", conf.Host, port))

	exit, err := session(conf.Username, transport, logger)
	transport.SendDisconnectionMessage()

	switch {
	case err != nil:
		fmt.Fprintf(os.Stderr, "Chat is over (%s): %v\n", exit, err)
		return 1
	case exit == term.ExitDisconnected:
		if cause := transport.Err(); cause != nil {
			fmt.Fprintln(os.Stderr, "Connection lost:", cause)
			return 1
		}
		fmt.Fprintln(os.Stderr, "Server closed connection")
	}
	logger.Info("Bye", "exit", exit.String())
	return 0
}

// session - runs chat screen over the terminal, the terminal is restored before return.
func session(username string, transport *client.Transport, logger *slog.Logger) (term.Exit, error) {
	terminal, err := term.Acquire(os.Stdin, os.Stdout)
	if err != nil {
		return term.ExitError, err
	}
	defer terminal.Release()

	// raw mode delivers Ctrl-C as a key, signals only come from outside
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	s := term.NewSession(
		terminal.Screen(),
		terminal.Keyboard(),
		transport,
		username,
		term.WithLogger(logger.With("component", "session")),
	)
	return s.Run(ctx)
}

// openLog - builds logger writing into path, or discarding logger if path is empty.
func openLog(path string) (*slog.Logger, func() error, error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler).With("app", BinaryName, "version", Version), f.Close, nil
}
