// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Devserve serves a directory over HTTP for local testing, adding permissive
CORS headers to every response so that pages served from other origins can
fetch the files.

# Usage

	$ devserve [-host 0.0.0.0] [-port 8000] [-dir .] [-config devserve.toml]

On startup devserve prints the URL it serves on and, when listening on all
interfaces, one URL for every LAN address it can discover, so the files can
be opened from other devices. Every response carries:

	Access-Control-Allow-Origin: *
	Access-Control-Allow-Methods: GET, OPTIONS
	Access-Control-Allow-Headers: X-Requested-With, Content-Type

OPTIONS requests are answered with 204 No Content and the headers above
without consulting the file system, so browser preflight requests always
succeed. Every other request is handled by the standard file server.

Each request is logged to stderr. Press Ctrl+C to stop.

# Configuration

Settings are taken, in order of preference, from command-line flags, the TOML
file given by -config, the DEVSERVE_HOST, DEVSERVE_PORT and DEVSERVE_DIR
environment variables and built-in defaults. A config file looks like:

	host = "127.0.0.1"
	port = 9000
	dir = "playlists"

A relative dir in the config file is resolved against the file's directory.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/devserve/internal/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
