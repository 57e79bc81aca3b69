package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/songs/internal/repositories"
	"github.com/desertthunder/songs/internal/shared"
	tu "github.com/desertthunder/songs/internal/testing"
)

// newTestRunner builds a runner over a fresh n-song catalog with history disabled.
func newTestRunner(t *testing.T, n int) (*Runner, *bytes.Buffer, string) {
	t.Helper()
	path := tu.WriteCatalog(t, tu.CatalogCSV(n))

	config := shared.DefaultConfig()
	config.Catalog.Path = path
	config.Database.Path = ""

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(io.Discard), Output: output})
	t.Cleanup(func() { runner.Close() })
	return runner, output, path
}

func run(r *Runner, args ...string) error {
	return newApp(r).Run(context.Background(), append([]string{"songs"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil config resolves lazily", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config != nil {
				t.Error("expected config to be resolved when a command runs")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: tu.NewLimitedWriter(1, &bytes.Buffer{})})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		want := []string{"serve", "setup", "list", "find", "rate", "history", "export", "tui"}
		if len(commands) != len(want) {
			t.Fatalf("expected %d commands, got %d", len(want), len(commands))
		}
		for i, cmd := range commands {
			if cmd == nil || cmd.Name != want[i] {
				t.Errorf("command %d: expected %s", i, want[i])
			}
		}
	})
}

func TestCommands(t *testing.T) {
	t.Run("list JSON", func(t *testing.T) {
		runner, output, _ := newTestRunner(t, 25)

		if err := run(runner, "list", "--page", "3", "--limit", "10", "--json"); err != nil {
			t.Fatalf("list failed: %v", err)
		}

		var songs []map[string]any
		if err := json.Unmarshal(output.Bytes(), &songs); err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}
		if len(songs) != 5 || songs[0]["id"] != "song-21" {
			t.Errorf("unexpected songs %v", songs)
		}
	})

	t.Run("list plain", func(t *testing.T) {
		runner, output, _ := newTestRunner(t, 3)

		if err := run(runner, "list"); err != nil {
			t.Fatalf("list failed: %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "page 1 of 1 (3 total)") || !strings.Contains(result, "Song 3") {
			t.Errorf("unexpected output:\n%s", result)
		}
	})

	t.Run("list out of bounds", func(t *testing.T) {
		runner, output, _ := newTestRunner(t, 25)

		if err := run(runner, "list", "--page", "4"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(output.String(), "max_limit=25, max_page=3") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("list rejects zero limit", func(t *testing.T) {
		runner, _, _ := newTestRunner(t, 3)

		err := run(runner, "list", "--limit", "0")
		if !errors.Is(err, shared.ErrParameterNotPositive) {
			t.Errorf("expected ErrParameterNotPositive, got %v", err)
		}
	})

	t.Run("catalog flag overrides config", func(t *testing.T) {
		runner, output, _ := newTestRunner(t, 1)
		runner.config.Catalog.Path = filepath.Join(t.TempDir(), "missing.csv")
		other := tu.WriteCatalog(t, tu.CatalogCSV(4))

		if err := run(runner, "--catalog", other, "list", "--json"); err != nil {
			t.Fatalf("list failed: %v", err)
		}

		var songs []map[string]any
		if err := json.Unmarshal(output.Bytes(), &songs); err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}
		if len(songs) != 4 {
			t.Errorf("expected 4 songs, got %d", len(songs))
		}
	})

	t.Run("find", func(t *testing.T) {
		runner, output, _ := newTestRunner(t, 5)

		if err := run(runner, "find", "--json", "song 3"); err != nil {
			t.Fatalf("find failed: %v", err)
		}
		if !strings.Contains(output.String(), `"id": "song-3"`) {
			t.Errorf("unexpected output %s", output.String())
		}
	})

	t.Run("find missing", func(t *testing.T) {
		runner, _, _ := newTestRunner(t, 5)

		if err := run(runner, "find", "Song"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if err := run(runner, "find"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("rate", func(t *testing.T) {
		runner, output, path := newTestRunner(t, 5)

		if err := run(runner, "rate", "song-2", "3"); err != nil {
			t.Fatalf("rate failed: %v", err)
		}
		if !strings.Contains(output.String(), "Rated song-2 3/5") {
			t.Errorf("unexpected output %q", output.String())
		}

		table, err := repositories.NewFileStore(path).Load()
		if err != nil {
			t.Fatalf("failed to reload table: %v", err)
		}
		if table.Songs[1].Rating() != 3 {
			t.Errorf("expected persisted rating 3, got %d", table.Songs[1].Rating())
		}
	})

	t.Run("rate errors", func(t *testing.T) {
		runner, _, path := newTestRunner(t, 5)
		before := tu.MustReadFile(t, path)

		tc := []struct {
			name    string
			args    []string
			wantErr error
		}{
			{name: "float", args: []string{"rate", "song-1", "5.0"}, wantErr: shared.ErrInvalidInput},
			{name: "word", args: []string{"rate", "song-1", "five"}, wantErr: shared.ErrInvalidInput},
			{name: "range", args: []string{"rate", "song-1", "6"}, wantErr: shared.ErrInvalidRange},
			{name: "missing id", args: []string{"rate", "nope", "3"}, wantErr: shared.ErrNotFound},
			{name: "missing rating", args: []string{"rate", "song-1"}, wantErr: shared.ErrMissingArgument},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if err := run(runner, tt.args...); !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
			})
		}

		if tu.MustReadFile(t, path) != before {
			t.Error("failed ratings changed the table file")
		}
	})

	t.Run("history disabled", func(t *testing.T) {
		runner, _, _ := newTestRunner(t, 1)

		if err := run(runner, "history"); !errors.Is(err, shared.ErrHistoryDisabled) {
			t.Errorf("expected ErrHistoryDisabled, got %v", err)
		}
	})

	t.Run("history", func(t *testing.T) {
		runner, output, _ := newTestRunner(t, 3)
		runner.config.Database.Path = filepath.Join(t.TempDir(), "songs.db")

		if err := run(runner, "rate", "song-1", "2"); err != nil {
			t.Fatalf("rate failed: %v", err)
		}
		if err := run(runner, "rate", "song-1", "4"); err != nil {
			t.Fatalf("rate failed: %v", err)
		}
		output.Reset()

		if err := run(runner, "history", "--id", "song-1", "--json"); err != nil {
			t.Fatalf("history failed: %v", err)
		}

		var events []map[string]any
		if err := json.Unmarshal(output.Bytes(), &events); err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("expected 2 events, got %d", len(events))
		}
		if events[0]["rating"] != float64(4) || events[0]["previous_rating"] != float64(2) {
			t.Errorf("unexpected newest event %v", events[0])
		}
	})

	t.Run("export to stdout", func(t *testing.T) {
		runner, output, path := newTestRunner(t, 4)

		if err := run(runner, "export", "--format", "csv"); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		if output.String() != tu.MustReadFile(t, path) {
			t.Errorf("csv export should match the table file")
		}
	})

	t.Run("export to file", func(t *testing.T) {
		runner, _, _ := newTestRunner(t, 4)
		dest := filepath.Join(t.TempDir(), "songs.md")

		if err := run(runner, "export", "--format", "markdown", "--output", dest); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		tu.AssertFileExists(t, dest)
		if !strings.Contains(tu.MustReadFile(t, dest), "Song 4") {
			t.Error("expected exported songs")
		}
	})

	t.Run("export unknown format", func(t *testing.T) {
		runner, _, _ := newTestRunner(t, 1)

		if err := run(runner, "export", "--format", "pdf"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("serve fails when the catalog cannot load", func(t *testing.T) {
		runner, _, _ := newTestRunner(t, 1)
		runner.config.Catalog.Path = filepath.Join(t.TempDir(), "missing.csv")

		if err := run(runner, "serve"); err == nil {
			t.Error("expected startup error")
		}
	})
}

func TestSetup(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: &bytes.Buffer{}})

		if err := run(runner, "setup", "config", "--path", path); err != nil {
			t.Fatalf("setup config failed: %v", err)
		}
		tu.AssertFileExists(t, path)

		if err := run(runner, "setup", "config", "--path", path); err == nil {
			t.Error("expected error when the config already exists")
		}
	})

	t.Run("database", func(t *testing.T) {
		dir := t.TempDir()
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(dir, "songs.db")
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(io.Discard), Output: output})

		if err := run(runner, "setup", "database"); err != nil {
			t.Fatalf("setup database failed: %v", err)
		}
		tu.AssertFileExists(t, config.Database.Path)
		if !strings.Contains(output.String(), "1 migration(s) applied") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("database disabled", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Path = ""
		runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(io.Discard), Output: &bytes.Buffer{}})

		if err := run(runner, "setup", "database"); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestApplyAddr(t *testing.T) {
	tc := []struct {
		addr     string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{addr: "0.0.0.0:8080", wantHost: "0.0.0.0", wantPort: 8080},
		{addr: ":5000", wantHost: "", wantPort: 5000},
		{addr: "localhost", wantErr: true},
		{addr: "localhost:http", wantErr: true},
		{addr: "localhost:70000", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.addr, func(t *testing.T) {
			cfg := shared.DefaultConfig().Server
			err := applyAddr(&cfg, tt.addr)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Host != tt.wantHost || cfg.Port != tt.wantPort {
				t.Errorf("got %s:%d, want %s:%d", cfg.Host, cfg.Port, tt.wantHost, tt.wantPort)
			}
		})
	}
}
