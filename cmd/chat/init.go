package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wtask/linechat/internal/config"
)

// Configuration - client configuration.
type Configuration struct {
	// Host - address to connect to, or to listen on with Listen
	Host string `yaml:"host"`
	// Port - port to connect to, or to listen on with Listen
	Port uint `yaml:"port"`
	// Listen - host the chat server in the client process
	Listen bool `yaml:"listen"`
	// Username - name the lines are sent on behalf of
	Username string `yaml:"username"`
	// LogFile - path of debug log, logs are discarded when it is empty
	LogFile string `yaml:"log"`
}

// DefaultHost - host used if it is not given.
const DefaultHost = "127.0.0.1"

var (
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

	conf := Configuration{Host: DefaultHost, Username: currentUser()}
	cli := conf
	path := ""

	flags := flag.NewFlagSet(BinaryName, flag.ContinueOnError)
	flags.SetOutput(out)
	flags.Usage = func() {
		fmt.Fprintf(out, "Chat with other people over TCP\n\n\t%s [options] [host] port\nOptions:\n\n", BinaryName)
		flags.PrintDefaults()
		fmt.Fprint(out, "\n")
	}
	flags.BoolVar(&cli.Listen, "l", false, "Start the chat server on host:port and join it")
	flags.BoolVar(&cli.Listen, "listen", false, "Same as -l")
	flags.StringVar(&cli.Username, "u", cli.Username, "Name to chat with")
	flags.StringVar(&cli.Username, "username", cli.Username, "Same as -u")
	flags.StringVar(&cli.LogFile, "log", "", "Write debug log into the file")
	flags.StringVar(&path, "config", "", "Load configuration from YAML file, flags take precedence")

	positional, err := config.Parse(flags, args)
	if err != nil {
		return conf, err
	}

	if path != "" {
		if err := config.Load(path, &conf); err != nil {
			printError(err.Error())
			return conf, err
		}
	}
	config.Override(flags, map[string]func(){
		"l":        func() { conf.Listen = cli.Listen },
		"listen":   func() { conf.Listen = cli.Listen },
		"u":        func() { conf.Username = cli.Username },
		"username": func() { conf.Username = cli.Username },
		"log":      func() { conf.LogFile = cli.LogFile },
	})

	port := ""
	switch len(positional) {
	case 0:
	case 1:
		port = positional[0]
	case 2:
		conf.Host, port = positional[0], positional[1]
	default:
		err := fmt.Errorf("unexpected arguments: %s", strings.Join(positional[2:], " "))
		printError(err.Error())
		return conf, err
	}
	if port != "" {
		p, err := strconv.ParseUint(port, 10, 16)
		if err != nil {
			err = fmt.Errorf("invalid port %q", port)
			printError(err.Error())
			return conf, err
		}
		conf.Port = uint(p)
	}

	switch {
	case conf.Port == 0 || conf.Port > 65535:
		err = errors.New("port is required and should be in range 1-65535")
	case conf.Host == "":
		err = errors.New("host is empty")
	case conf.Username == "":
		err = errors.New("username is empty, use -u to set it")
	}
	if err != nil {
		printError(err.Error())
		flags.Usage()
		return conf, err
	}
	return conf, nil
}

// currentUser - name of OS user running the process.
func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
