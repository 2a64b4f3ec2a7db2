package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(test *testing.T) {
	cases := []struct {
		args     []string
		expected Configuration
	}{
		{
			[]string{"-u", "bob", "9999"},
			Configuration{Host: DefaultHost, Port: 9999, Username: "bob"},
		},
		{
			[]string{"-u", "alice", "example.org", "9999"},
			Configuration{Host: "example.org", Port: 9999, Username: "alice"},
		},
		{
			[]string{"localhost", "9999", "-l", "-username=bob", "-log", "chat.log"},
			Configuration{Host: "localhost", Port: 9999, Listen: true, Username: "bob", LogFile: "chat.log"},
		},
	}
	for _, c := range cases {
		conf, err := configure(c.args, &bytes.Buffer{})
		require.NoError(test, err, "%v", c.args)
		assert.Equal(test, c.expected, conf, "%v", c.args)
	}
}

func TestConfigure_DefaultUsername(test *testing.T) {
	username := currentUser()
	if username == "" {
		test.Skip("OS user is unknown")
	}
	conf, err := configure([]string{"9999"}, &bytes.Buffer{})
	require.NoError(test, err)
	assert.Equal(test, username, conf.Username)
}

func TestConfigure_File(test *testing.T) {
	path := filepath.Join(test.TempDir(), "chat.yaml")
	content := "host: example.org\nport: 2000\nusername: carol\nlisten: true\n"
	require.NoError(test, os.WriteFile(path, []byte(content), 0o600))

	conf, err := configure([]string{"-config", path}, &bytes.Buffer{})
	require.NoError(test, err)
	assert.Equal(test, Configuration{Host: "example.org", Port: 2000, Listen: true, Username: "carol"}, conf)

	// flags and positional arguments win over the file
	conf, err = configure([]string{"-config", path, "-u", "dave", "3000"}, &bytes.Buffer{})
	require.NoError(test, err)
	assert.Equal(test, Configuration{Host: "example.org", Port: 3000, Listen: true, Username: "dave"}, conf)
}

func TestConfigure_Errors(test *testing.T) {
	cases := [][]string{
		{},
		{"host", "port"},
		{"70000"},
		{"0"},
		{"a", "1", "b"},
		{"-u", "", "9999"},
		{"-config", filepath.Join(test.TempDir(), "missing.yaml"), "9999"},
		{"-unknown", "9999"},
	}
	for _, args := range cases {
		out := &bytes.Buffer{}
		_, err := configure(args, out)
		assert.Error(test, err, "%v", args)
		assert.NotEmpty(test, out.String(), "%v", args)
	}
}

func TestConfigure_Help(test *testing.T) {
	out := &bytes.Buffer{}
	_, err := configure([]string{"-help"}, out)
	assert.ErrorIs(test, err, flag.ErrHelp)
	assert.Contains(test, out.String(), "[host] port")
}
