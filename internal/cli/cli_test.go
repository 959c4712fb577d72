// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"testing"

	"go.astrophena.name/devserve/internal/testutil"
)

type flagApp struct {
	name string
	got  []string
}

func (a *flagApp) Flags(fs *flag.FlagSet) {
	fs.StringVar(&a.name, "name", "world", "Name to greet.")
}

func (a *flagApp) Run(ctx context.Context) error {
	env := GetEnv(ctx)
	a.got = env.Args
	fmt.Fprintf(env.Stdout, "hello, %s\n", a.name)
	return nil
}

func TestRun(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		args       []string
		wantErr    error
		wantName   string
		wantArgs   []string
		wantStdout string
		wantStderr string
	}{
		"defaults": {
			wantName:   "world",
			wantStdout: "hello, world\n",
		},
		"double dash flag and positional args": {
			args:       []string{"--name", "gopher", "a", "b"},
			wantName:   "gopher",
			wantArgs:   []string{"a", "b"},
			wantStdout: "hello, gopher\n",
		},
		"help": {
			args:       []string{"-h"},
			wantErr:    flag.ErrHelp,
			wantName:   "world",
			wantStderr: "Available flags:",
		},
		"version": {
			args:       []string{"-version"},
			wantErr:    ErrExitVersion,
			wantName:   "world",
			wantStderr: "devel",
		},
		"unknown flag": {
			args:       []string{"-nope"},
			wantName:   "world",
			wantStderr: "flag provided but not defined: -nope",
		},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			env := &Env{
				Args:   tc.args,
				Stdout: &stdout,
				Stderr: &stderr,
			}
			app := new(flagApp)
			err := Run(WithEnv(context.Background(), env), app)
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("want error %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr == nil && tc.wantStderr == "" && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, app.name, tc.wantName)
			if tc.wantArgs != nil {
				testutil.AssertEqual(t, app.got, tc.wantArgs)
			}
			if tc.wantStdout != "" {
				testutil.AssertEqual(t, stdout.String(), tc.wantStdout)
			}
			if !strings.Contains(stderr.String(), tc.wantStderr) {
				t.Errorf("stderr must contain %q, got %q", tc.wantStderr, stderr.String())
			}
		})
	}
}

func TestIsPrintableError(t *testing.T) {
	t.Parallel()

	testutil.AssertEqual(t, isPrintableError(flag.ErrHelp), false)
	testutil.AssertEqual(t, isPrintableError(ErrExitVersion), false)
	testutil.AssertEqual(t, isPrintableError(&unprintableError{errors.New("parse")}), false)
	testutil.AssertEqual(t, isPrintableError(fmt.Errorf("%w: bad port", ErrInvalidArgs)), true)
}

func TestEnvLogf(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	env := &Env{Stderr: &stderr}
	env.Logf("Serving %s.", "/tmp")
	testutil.AssertEqual(t, stderr.String(), "Serving /tmp.\n")
}

func TestGetEnvDefault(t *testing.T) {
	t.Parallel()

	env := GetEnv(context.Background())
	if env.Stdout == nil || env.Getenv == nil {
		t.Fatal("GetEnv must fall back to the operating system environment")
	}
}

func TestParseDocComment(t *testing.T) {
	t.Parallel()

	src := []byte(`// header

/*
Tool does things.

# Usage
*/
package main
`)
	testutil.AssertEqual(t, parseDocComment(src), "Tool does things.\n\n# Usage\n")
}
