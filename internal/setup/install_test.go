package setup

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestInstallRunsFetchedScript(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("installer requires sh")
	}

	marker := filepath.Join(t.TempDir(), "installed")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "#!/bin/sh\necho installing\ntouch %s\n", marker)
	}))
	defer srv.Close()

	var out bytes.Buffer
	if err := Install(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("Install: %v", err)
	}

	if _, err := os.Stat(marker); err != nil {
		t.Error("installer script did not run")
	}
	if !strings.Contains(out.String(), "installing") {
		t.Error("installer output not forwarded")
	}
}

func TestInstallFailsOnScriptError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("installer requires sh")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "#!/bin/sh\nexit 1\n")
	}))
	defer srv.Close()

	var out bytes.Buffer
	if err := Install(context.Background(), srv.URL, &out); err == nil {
		t.Fatal("expected error from failing installer")
	}
}

func TestInstallFailsOnHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	var out bytes.Buffer
	if err := Install(context.Background(), srv.URL, &out); err == nil {
		t.Fatal("expected error from 404")
	}
}

func TestInstallFailsWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var out bytes.Buffer
	if err := Install(context.Background(), url, &out); err == nil {
		t.Fatal("expected error against closed server")
	}
}
