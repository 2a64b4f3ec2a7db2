// Package config loads binary configuration from YAML file and lets command line flags win over it.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load - decodes YAML file at path into target, unknown keys are rejected.
// Empty file leaves target untouched.
func Load(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config.Load: %s: %w", path, err)
	}
	return nil
}

// Override - calls apply for every flag explicitly set on the command line,
// so values taken from file are replaced by flags only.
func Override(flags *flag.FlagSet, apply map[string]func()) {
	flags.Visit(func(f *flag.Flag) {
		if fn, ok := apply[f.Name]; ok {
			fn()
		}
	})
}

// Parse - parses args allowing positional arguments to be mixed with flags,
// returns positional arguments in order.
func Parse(flags *flag.FlagSet, args []string) ([]string, error) {
	positional := []string{}
	for {
		if err := flags.Parse(args); err != nil {
			return nil, err
		}
		if flags.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, flags.Arg(0))
		args = flags.Args()[1:]
	}
}
