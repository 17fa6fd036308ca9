package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

type cliTestEnv struct {
	base       string
	inputDir   string
	outputDir  string
	logDir     string
	binDir     string
	configPath string
}

const uvxStub = `#!/bin/sh
src=""
out=""
while [ $# -gt 0 ]; do
  case "$1" in
    whisperx) src="$2"; shift 2; continue ;;
    --output_dir) out="$2"; shift 2; continue ;;
  esac
  shift
done
base=$(basename "$src")
base="${base%.*}"
printf '{"segments":[{"text":" Hello there.","start":0.0,"end":1.5,"words":[{"word":"Hello","start":0.0,"end":0.6},{"word":"there.","start":0.7,"end":1.5}]}]}' > "$out/$base.json"
`

const ffmpegStub = `#!/bin/sh
for last; do :; done
printf 'RIFF' > "$last"
`

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("OPENAI_API_KEY", "")

	env := &cliTestEnv{
		base:       base,
		inputDir:   filepath.Join(base, "in"),
		outputDir:  filepath.Join(base, "out"),
		logDir:     filepath.Join(base, "logs"),
		binDir:     filepath.Join(base, "bin"),
		configPath: filepath.Join(base, "config.toml"),
	}
	for _, dir := range []string{env.inputDir, env.binDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	writeExecutable(t, filepath.Join(env.binDir, "uvx"), uvxStub)
	writeExecutable(t, filepath.Join(env.binDir, "ffmpeg"), ffmpegStub)
	env.writeConfig(t, "")
	return env
}

// writeConfig writes a config pointing at the stub tools; extra is appended
// to the [batch] table.
func (e *cliTestEnv) writeConfig(t *testing.T, extra string) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
input_dir = %q
output_dir = %q
temp_dir = %q
log_dir = %q

[batch]
input_extensions = [".mp4", ".mkv", ".wav"]
%s

[tools]
uvx = %q

[tools.ffmpeg]
default = %q

[logging]
level = "error"
`,
		e.inputDir,
		e.outputDir,
		filepath.Join(e.base, "tmp"),
		e.logDir,
		extra,
		filepath.Join(e.binDir, "uvx"),
		filepath.Join(e.binDir, "ffmpeg"),
	)
	if err := os.WriteFile(e.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (e *cliTestEnv) touch(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(e.inputDir, name), []byte("media"), 0o644); err != nil {
			t.Fatalf("write input %s: %v", name, err)
		}
	}
}

func writeExecutable(t *testing.T, path, script string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", path, err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--env-file", ""}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\noutput:\n%s", needle, haystack)
	}
}
