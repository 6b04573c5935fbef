package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/memberqa/config"
	"github.com/poiesic/memberqa/core"
)

const messagesJSON = `[
	{"member_name": "Layla Kawaguchi", "text": "trip planned for June 12, 2025", "timestamp": "2025-05-01T10:00:00"},
	{"member_name": "Vikram Desai", "text": "I still have a Tesla Model 3 and a Range Rover", "timestamp": "2025-03-10"},
	{"member_name": "Amira Khan", "text": "My favorite restaurants: Chez Louis, The Marina House", "timestamp": "2024-11-20"}
]`

// testEnv points the app at a temporary messages file and index.
func testEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "messages.json")
	require.NoError(t, os.WriteFile(path, []byte(messagesJSON), 0o644))

	t.Setenv("MESSAGES_PATH", path)
	t.Setenv("INDEX_PATH", filepath.Join(dir, "index"))
	t.Setenv("ANSWER_MODE", "rules")
	t.Setenv("LOG_LEVEL", "error")
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &bytes.Buffer{}
	err := app.Run(append([]string{"memberqa", "--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	return out.String(), err
}

func findCommand(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %q not found", name)
	return nil
}

func TestAppCommands(t *testing.T) {
	app := newApp()
	for _, name := range []string{"serve", "ask", "reindex", "sample", "analyze", "mcp"} {
		assert.NotNil(t, findCommand(t, app, name))
	}

	t.Run("log-level defaults to info and reads LOG_LEVEL", func(t *testing.T) {
		var levelFlag *cli.StringFlag
		for _, flag := range app.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "log-level" {
				levelFlag = f
			}
		}
		require.NotNil(t, levelFlag)
		assert.Equal(t, "info", levelFlag.Value)
		assert.Equal(t, []string{"LOG_LEVEL"}, levelFlag.EnvVars)
	})

	t.Run("sample n defaults to 5", func(t *testing.T) {
		cmd := findCommand(t, app, "sample")
		var nFlag *cli.IntFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "n" {
				nFlag = f
			}
		}
		require.NotNil(t, nFlag)
		assert.Equal(t, 5, nFlag.Value)
	})
}

func TestSetupLogger(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"INFO", false},
		{"warn", false},
		{"error", false},
		{"verbose", true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			app := &cli.App{
				Flags:  []cli.Flag{&cli.StringFlag{Name: "log-level", Value: "info"}},
				Before: setupLogger,
				Action: func(*cli.Context) error { return nil },
			}
			err := app.Run([]string{"test", "--log-level", tt.level})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid log level")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAskCommand(t *testing.T) {
	testEnv(t)

	out, err := runApp(t, "ask", "how", "many", "cars", "does", "Vikram", "have")
	require.NoError(t, err)
	assert.Equal(t, "2 (models detected: Tesla Model 3, Range Rover).\n", out)
}

func TestReindexCommand(t *testing.T) {
	testEnv(t)

	out, err := runApp(t, "reindex")
	require.NoError(t, err)
	assert.Equal(t, "Indexed 3 documents (generation 1)\n", out)

	// The next run loads the persisted generation
	out, err = runApp(t, "ask", "what are Amira's favorite restaurants")
	require.NoError(t, err)
	assert.Contains(t, out, "Favorites: Chez Louis, The Marina House")
}

func TestSampleCommand(t *testing.T) {
	testEnv(t)

	out, err := runApp(t, "sample", "--n", "2", "--raw")
	require.NoError(t, err)

	var sample core.Sample
	require.NoError(t, json.Unmarshal([]byte(out), &sample))
	assert.Equal(t, 3, sample.TotalDocs)
	require.Len(t, sample.Sample, 2)
	assert.Equal(t, "Layla Kawaguchi", sample.Sample[0].Member)
	assert.NotEmpty(t, sample.Sample[0].Raw)
}

func TestAnalyzeCommand(t *testing.T) {
	testEnv(t)

	out, err := runApp(t, "analyze")
	require.NoError(t, err)
	assert.Contains(t, out, "Total messages: 3")
	assert.Contains(t, out, "Vikram Desai")

	out, err = runApp(t, "analyze", "--json")
	require.NoError(t, err)
	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, float64(3), report["total"])
}

func TestWatchPath(t *testing.T) {
	cfg := config.Default()
	cfg.Messages.Path = "/data/messages.json"
	path, err := watchPath(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/data/messages.json", path)
}
