// Package integration provides CLI integration tests for codelink. The
// tests build the binary once and drive it via os/exec against isolated
// temp directories.
package integration

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	codelinkBin string
	buildOnce   sync.Once
	buildErr    error
	buildTmpDir string
)

// ensureBinary builds the codelink binary once and returns the path to it.
func ensureBinary(t *testing.T) string {
	t.Helper()
	buildOnce.Do(func() {
		buildTmpDir, buildErr = os.MkdirTemp("", "codelink-cli-test-*")
		if buildErr != nil {
			return
		}
		binPath := filepath.Join(buildTmpDir, "codelink")
		cmd := exec.Command("go", "build", "-o", binPath, "./cmd/codelink")
		cmd.Dir = projectRoot()
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		buildErr = cmd.Run()
		if buildErr == nil {
			codelinkBin = binPath
		}
	})
	require.NoError(t, buildErr, "build codelink binary")
	return codelinkBin
}

// projectRoot returns the absolute path to the project root by walking up
// from the working directory until go.mod is found.
func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("go.mod not found")
		}
		dir = parent
	}
}

// testEnv provides an isolated environment with its own config and data dir.
type testEnv struct {
	t         *testing.T
	ConfigDir string
	DataDir   string
}

// newTestEnv creates an isolated test environment.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tmpDir := t.TempDir()
	return &testEnv{
		t:         t,
		ConfigDir: filepath.Join(tmpDir, "config"),
		DataDir:   filepath.Join(tmpDir, "data"),
	}
}

// cmdResult holds the result of a codelink command execution.
type cmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// cleanEnv returns os.Environ() with all CODELINK_* and XDG_* variables
// removed, providing a clean baseline for subprocess isolation.
func cleanEnv() []string {
	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "CODELINK_") || strings.HasPrefix(e, "XDG_") {
			continue
		}
		env = append(env, e)
	}
	return env
}

// run executes codelink with --config-dir and --data-dir pointing at the
// environment's directories.
func (e *testEnv) run(args ...string) cmdResult {
	e.t.Helper()
	allArgs := append([]string{"--config-dir", e.ConfigDir, "--data-dir", e.DataDir}, args...)
	return runWith(e.t, nil, "", allArgs...)
}

// mustRun executes codelink and fails the test on a non-zero exit code.
func (e *testEnv) mustRun(args ...string) cmdResult {
	e.t.Helper()
	result := e.run(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("codelink %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// runWith executes the codelink binary with explicit control over the
// environment and working directory. The subprocess environment is cleaned
// of CODELINK_* and XDG_* variables before adding the provided overrides.
func runWith(t *testing.T, env []string, workDir string, args ...string) cmdResult {
	t.Helper()
	bin := ensureBinary(t)
	cmd := exec.Command(bin, args...)
	cmd.Env = append(cleanEnv(), env...)
	if workDir != "" {
		cmd.Dir = workDir
	}
	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("run codelink: %v", err)
		}
	}
	return cmdResult{Stdout: outBuf.String(), Stderr: errBuf.String(), ExitCode: exitCode}
}

// parseJSON parses JSON output into the target type.
func parseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// asset mirrors the asset entity for JSON parsing.
type asset struct {
	AssetID     string `json:"asset_id"`
	Key         string `json:"key"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// entry mirrors the entry entity for JSON parsing.
type entry struct {
	EntryID   string          `json:"entry_id"`
	AssetKey  string          `json:"asset_key"`
	Label     string          `json:"label"`
	Kind      string          `json:"kind"`
	Value     json.RawMessage `json:"value"`
	CreatedAt string          `json:"created_at"`
}

// resolvedLinks mirrors the resolve output for JSON parsing.
type resolvedLinks struct {
	DefaultKey  string `json:"default_key"`
	DefaultLink string `json:"default_link"`
	Alternates  []struct {
		Key  string `json:"key"`
		Link string `json:"link"`
	} `json:"alternates"`
}
