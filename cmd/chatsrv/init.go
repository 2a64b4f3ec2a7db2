package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wtask/linechat/internal/config"
)

// Configuration - server configuration
type Configuration struct {
	// IPAddress - bind the address
	IPAddress string `yaml:"ip"`
	// Port - bind the port
	Port uint `yaml:"port"`
	// ChunkSize - max size of a single read from client connection
	ChunkSize int `yaml:"chunk"`
	// NoEcho - do not relay line back to the client it came from
	NoEcho bool `yaml:"no-echo"`
	// Debug - log every connection event
	Debug bool `yaml:"debug"`
}

var (
	// DefaultConfig - configuration used when nothing is overridden
	DefaultConfig = Configuration{
		IPAddress: "",
		Port:      20000,
		ChunkSize: 1024,
	}

	// BinaryName - name of run application binary
	BinaryName = strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))

	// Version - app version fingerprint
	Version = "1.0.0"
)

// configure - builds configuration from command line args and optional config file.
// Returns flag.ErrHelp if usage help was requested.
func configure(args []string, out io.Writer) (Configuration, error) {
	printError := func(msg string) {
		fmt.Fprintf(out, "%s (v%s) error:\n\n\t%s\n", BinaryName, Version, msg)
	}

	conf := DefaultConfig
	cli := conf
	path := ""

	flags := flag.NewFlagSet(BinaryName, flag.ContinueOnError)
	flags.SetOutput(out)
	flags.Usage = func() {
		fmt.Fprintf(out, "Launch text chat server over TCP\n\n\t%s [options]\nOptions:\n\n", BinaryName)
		flags.PrintDefaults()
		fmt.Fprint(out, "\n")
	}
	flags.StringVar(&cli.IPAddress, "ip", cli.IPAddress, "Listen address")
	flags.UintVar(&cli.Port, "port", cli.Port, "Listen port")
	flags.IntVar(&cli.ChunkSize, "chunk", cli.ChunkSize, "Max size in bytes of a single read from client connection")
	flags.BoolVar(&cli.NoEcho, "no-echo", false, "Do not send line back to its author")
	flags.BoolVar(&cli.Debug, "debug", false, "Enable debug logging")
	flags.StringVar(&path, "config", "", "Load configuration from YAML file, flags take precedence")

	if err := flags.Parse(args); err != nil {
		return conf, err
	}
	if flags.NArg() > 0 {
		err := fmt.Errorf("unexpected arguments: %s", strings.Join(flags.Args(), " "))
		printError(err.Error())
		return conf, err
	}

	if path != "" {
		if err := config.Load(path, &conf); err != nil {
			printError(err.Error())
			return conf, err
		}
	}
	config.Override(flags, map[string]func(){
		"ip":      func() { conf.IPAddress = cli.IPAddress },
		"port":    func() { conf.Port = cli.Port },
		"chunk":   func() { conf.ChunkSize = cli.ChunkSize },
		"no-echo": func() { conf.NoEcho = cli.NoEcho },
		"debug":   func() { conf.Debug = cli.Debug },
	})

	var err error
	switch {
	case conf.Port > 65535:
		err = errors.New("port value should be in range 0-65535")
	case conf.ChunkSize < 1:
		err = errors.New("chunk value should be greater 0")
	}
	if err != nil {
		printError(err.Error())
		return conf, err
	}
	return conf, nil
}
