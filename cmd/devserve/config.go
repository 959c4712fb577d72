// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"go.astrophena.name/devserve/internal/cli"
)

// serverConfig is the validated configuration of a running server. It is
// built once at startup and never changes.
type serverConfig struct {
	host string
	port int
	root string // absolute path of the served directory
}

func newServerConfig(host string, port int, dir string) (serverConfig, error) {
	if port < 1 || port > 65535 {
		return serverConfig{}, fmt.Errorf("%w: port must be between 1 and 65535, got %d", cli.ErrInvalidArgs, port)
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return serverConfig{}, fmt.Errorf("resolving %q: %w", dir, err)
	}
	fi, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return serverConfig{}, fmt.Errorf("directory not found: %s", root)
	}
	if err != nil {
		return serverConfig{}, err
	}
	if !fi.IsDir() {
		return serverConfig{}, fmt.Errorf("%s is not a directory", root)
	}

	return serverConfig{host: host, port: port, root: root}, nil
}

func (c serverConfig) addr() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

// allInterfaces reports whether the server listens on every interface.
func (c serverConfig) allInterfaces() bool {
	switch c.host {
	case "", "0.0.0.0", "::":
		return true
	}
	return false
}

// url returns the base URL of the server reached through host.
func (c serverConfig) url(host string) string {
	return "http://" + net.JoinHostPort(host, strconv.Itoa(c.port)) + "/"
}

// primaryURL is the URL printed first in the banner.
func (c serverConfig) primaryURL() string {
	if c.allInterfaces() {
		return c.url("localhost")
	}
	return c.url(c.host)
}

// configFile is the TOML config file format. Absent keys leave the setting
// alone.
type configFile struct {
	Host *string `toml:"host"`
	Port *int    `toml:"port"`
	Dir  *string `toml:"dir"`
}

// loadConfigFile reads the TOML file at path and sets the flags it mentions,
// except those named in skip.
func loadConfigFile(path string, flags *flag.FlagSet, skip map[string]bool) error {
	var cf configFile
	md, err := toml.DecodeFile(path, &cf)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%s: unknown keys %v", path, undecoded)
	}

	set := func(name, value string) error {
		if skip[name] {
			return nil
		}
		if err := flags.Set(name, value); err != nil {
			return fmt.Errorf("%s: invalid %s: %w", path, name, err)
		}
		return nil
	}

	if cf.Host != nil {
		if err := set("host", *cf.Host); err != nil {
			return err
		}
	}
	if cf.Port != nil {
		if err := set("port", strconv.Itoa(*cf.Port)); err != nil {
			return err
		}
	}
	if cf.Dir != nil {
		dir := *cf.Dir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(filepath.Dir(path), dir)
		}
		if err := set("dir", dir); err != nil {
			return err
		}
	}
	return nil
}
