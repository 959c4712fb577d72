// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package web

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.astrophena.name/devserve/internal/testutil"
)

func TestListenAndServeConfig(t *testing.T) {
	cases := map[string]struct {
		c       *ListenAndServeConfig
		wantErr error
	}{
		"no Addr": {
			c: &ListenAndServeConfig{
				Addr:    "",
				Handler: http.NotFoundHandler(),
			},
			wantErr: errNoAddr,
		},
		"nil Handler": {
			c: &ListenAndServeConfig{
				Addr:    ":3000",
				Handler: nil,
			},
			wantErr: errNilHandler,
		},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			err := ListenAndServe(context.Background(), tc.c)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestListenAndServe(t *testing.T) {
	var wg sync.WaitGroup

	ready := make(chan net.Addr, 1)
	errCh := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())

	mux := http.NewServeMux()
	mux.HandleFunc("/hello", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "hello")
	})

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := ListenAndServe(ctx, &ListenAndServeConfig{
			Addr:    "127.0.0.1:0",
			Handler: mux,
			Logf:    t.Logf,
			Ready:   func(addr net.Addr) { ready <- addr },
		}); err != nil {
			errCh <- err
		}
	}()

	var addr net.Addr
	select {
	case err := <-errCh:
		t.Fatalf("Test server crashed during startup: %v", err)
	case addr = <-ready:
	}

	res, err := http.Get("http://" + addr.String() + "/hello")
	if err != nil {
		t.Fatal(err)
	}
	b, err := io.ReadAll(res.Body)
	res.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, res.StatusCode, http.StatusOK)
	testutil.AssertEqual(t, string(b), "hello")

	// Try to gracefully shutdown the server.
	cancel()
	wg.Wait()
	select {
	case err := <-errCh:
		t.Fatalf("Test server crashed during shutdown: %v", err)
	default:
	}

	// The listener must be released.
	l, err := net.Listen("tcp", addr.String())
	if err != nil {
		t.Fatalf("address is still in use after shutdown: %v", err)
	}
	l.Close()
}

func TestListenAndServeAddrInUse(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := busy.Addr().String()

	var readyCalled bool
	err = ListenAndServe(context.Background(), &ListenAndServeConfig{
		Addr:    addr,
		Handler: http.NotFoundHandler(),
		Logf:    t.Logf,
		Ready:   func(net.Addr) { readyCalled = true },
	})
	if err == nil {
		t.Fatal("must fail when the address is in use")
	}
	testutil.AssertEqual(t, readyCalled, false)

	busy.Close()
	l, err := net.Listen("tcp", addr)
	if err != nil {
		t.Fatalf("failed startup left the address bound: %v", err)
	}
	l.Close()
}

func TestListenAndServeShutdownTimeout(t *testing.T) {
	started := make(chan struct{})
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		select {
		case <-r.Context().Done():
		case <-time.After(10 * time.Second):
		}
	})

	ready := make(chan net.Addr, 1)
	done := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		done <- ListenAndServe(ctx, &ListenAndServeConfig{
			Addr:            "127.0.0.1:0",
			Handler:         slow,
			Logf:            t.Logf,
			Ready:           func(addr net.Addr) { ready <- addr },
			ShutdownTimeout: 100 * time.Millisecond,
		})
	}()

	var addr net.Addr
	select {
	case err := <-done:
		t.Fatalf("Test server crashed during startup: %v", err)
	case addr = <-ready:
	}

	go func() {
		res, err := http.Get("http://" + addr.String() + "/download")
		if err == nil {
			res.Body.Close()
		}
	}()
	<-started

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("interrupt with a request in flight must be a clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server didn't stop after the shutdown timeout")
	}

	l, err := net.Listen("tcp", addr.String())
	if err != nil {
		t.Fatalf("address is still in use after shutdown: %v", err)
	}
	l.Close()
}

func TestListenAndServeServesDuringReady(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/hello", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "hello")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		status int
		getErr error
	)
	err := ListenAndServe(ctx, &ListenAndServeConfig{
		Addr:    "127.0.0.1:0",
		Handler: mux,
		Logf:    t.Logf,
		Ready: func(addr net.Addr) {
			// A slow Ready, like one waiting for address discovery, must not
			// hold requests back.
			defer cancel()
			client := &http.Client{Timeout: 5 * time.Second}
			res, err := client.Get("http://" + addr.String() + "/hello")
			if err != nil {
				getErr = err
				return
			}
			res.Body.Close()
			status = res.StatusCode
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if getErr != nil {
		t.Fatalf("request during Ready failed: %v", getErr)
	}
	testutil.AssertEqual(t, status, http.StatusOK)
}
