// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/fatih/color"

	"go.astrophena.name/devserve/internal/cli"
	"go.astrophena.name/devserve/internal/cli/envflag"
	"go.astrophena.name/devserve/internal/lanaddr"
	"go.astrophena.name/devserve/internal/web"
)

func main() { cli.Main(new(engine)) }

type discoverer interface {
	Discover(context.Context) []string
}

type engine struct {
	flags *flag.FlagSet

	// configuration
	host       *string
	port       *int
	dir        *string
	configPath string
	discover   bool

	cfg serverConfig

	// used in tests
	noServerStart bool
	lan           discoverer
	onReady       func(net.Addr)
}

func (e *engine) Flags(fs *flag.FlagSet) {
	e.flags = fs
	e.host = envflag.Value(fs, "host", "DEVSERVE_HOST", "0.0.0.0", "Listen on `host`; 0.0.0.0 means all interfaces.")
	e.port = envflag.Value(fs, "port", "DEVSERVE_PORT", 8000, "Listen on `port`.")
	e.dir = envflag.Value(fs, "dir", "DEVSERVE_DIR", ".", "Serve files from `directory`.")
	fs.StringVar(&e.configPath, "config", "", "Read settings from TOML `file`.")
	fs.BoolVar(&e.discover, "discover", true, "Print URLs for discovered LAN addresses.")
}

func (e *engine) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)

	if len(env.Args) > 0 {
		return fmt.Errorf("%w: unexpected arguments %q", cli.ErrInvalidArgs, env.Args)
	}

	cfg, err := e.resolveConfig(env)
	if err != nil {
		return err
	}
	e.cfg = cfg

	if e.noServerStart {
		return nil
	}

	var lan <-chan []string
	if e.discover && cfg.allInterfaces() {
		lan = e.startDiscovery(ctx)
	}

	handler := web.AccessLog(env.Logf, web.PermissiveCORS().Handler(http.FileServer(http.Dir(cfg.root))))

	return web.ListenAndServe(ctx, &web.ListenAndServeConfig{
		Addr:    cfg.addr(),
		Handler: handler,
		Logf:    env.Logf,
		Ready: func(addr net.Addr) {
			var addrs []string
			if lan != nil {
				addrs = <-lan
			}
			printBanner(env.Stdout, cfg, addrs, !color.NoColor && env.Stdout == os.Stdout)
			if e.onReady != nil {
				e.onReady(addr)
			}
		},
	})
}

func (e *engine) resolveConfig(env *cli.Env) (serverConfig, error) {
	getenv := env.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	explicit := envflag.Explicit(e.flags)
	if err := envflag.Apply(e.flags, getenv, explicit); err != nil {
		return serverConfig{}, fmt.Errorf("%w: %v", cli.ErrInvalidArgs, err)
	}
	if e.configPath != "" {
		if err := loadConfigFile(e.configPath, e.flags, explicit); err != nil {
			return serverConfig{}, err
		}
	}

	return newServerConfig(*e.host, *e.port, *e.dir)
}

// startDiscovery looks for LAN addresses in the background. Files are served
// while it runs; only the banner waits for it.
func (e *engine) startDiscovery(ctx context.Context) <-chan []string {
	d := e.lan
	if d == nil {
		d = new(lanaddr.Discoverer)
	}
	ch := make(chan []string, 1)
	go func() { ch <- d.Discover(ctx) }()
	return ch
}
