package sile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/devbush/daybrief/internal/config"
	"github.com/devbush/daybrief/internal/domain"
	"github.com/devbush/daybrief/internal/logger"
	"github.com/devbush/daybrief/internal/ports"
)

// DataEnv is the environment variable the document reads the data JSON
// path from.
const DataEnv = "REPORT_DATA_JSON"

// Typesetter implements ports.Typesetter by running the sile binary
type Typesetter struct {
	configured string
	binPath    string
}

// NewTypesetter creates a typesetter. An empty binPath searches the bundled
// bin directory and then PATH.
func NewTypesetter(binPath string) *Typesetter {
	return &Typesetter{configured: binPath}
}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "sile.exe"
	}
	return "sile"
}

func (t *Typesetter) findBinary() string {
	if t.configured != "" {
		if _, err := os.Stat(t.configured); err == nil {
			return t.configured
		}
		if path, err := exec.LookPath(t.configured); err == nil {
			return path
		}
		return ""
	}

	// Check bundled location first
	bundled := filepath.Join(config.BinDir(), binaryName())
	if _, err := os.Stat(bundled); err == nil {
		return bundled
	}

	// Check system PATH
	if path, err := exec.LookPath(binaryName()); err == nil {
		return path
	}

	return ""
}

func (t *Typesetter) GetBinaryPath() string {
	if t.binPath != "" {
		return t.binPath
	}
	t.binPath = t.findBinary()
	return t.binPath
}

func (t *Typesetter) IsAvailable() bool {
	return t.GetBinaryPath() != ""
}

// Compile runs `sile -o <output> <entrypoint>` with DataEnv pointing at the
// data JSON.
func (t *Typesetter) Compile(ctx context.Context, opts ports.CompileOpts) error {
	if _, err := os.Stat(opts.Entrypoint); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrEntrypointNotFound, opts.Entrypoint)
	}

	binPath := t.GetBinaryPath()
	if binPath == "" {
		return domain.ErrTypesetterNotFound
	}

	if err := os.MkdirAll(filepath.Dir(opts.Output), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, binPath, "-o", opts.Output, opts.Entrypoint)
	cmd.Env = os.Environ()
	if opts.DataJSON != "" {
		dataPath, err := filepath.Abs(opts.DataJSON)
		if err != nil {
			dataPath = opts.DataJSON
		}
		cmd.Env = append(cmd.Env, DataEnv+"="+dataPath)
	}

	logger.Info("running sile", "bin", binPath, "entrypoint", opts.Entrypoint, "output", opts.Output)

	output, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("sile exited with status %d: %s", exitErr.ExitCode(), tail(string(output), 20))
		}
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return domain.ErrTypesetterNotFound
		}
		return fmt.Errorf("failed to run sile: %w", err)
	}

	logger.Debug("sile output", "output", string(output))
	return nil
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

var _ ports.Typesetter = (*Typesetter)(nil)
