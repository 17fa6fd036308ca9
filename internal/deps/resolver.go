package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"subgen/internal/services"
)

// DefaultPlatform is the table key used when no entry matches the running OS.
const DefaultPlatform = "default"

// Candidate maps a platform (a GOOS value or DefaultPlatform) to an executable
// location.
type Candidate struct {
	Platform string
	Path     string
}

// Resolver picks an executable from an ordered platform table. Supporting a new
// platform means adding a candidate; the lookup itself does not change.
type Resolver struct {
	Tool       string
	Candidates []Candidate
	ToolsDir   string
	GOOS       string
}

// NewResolver builds a resolver from a config table such as
// {"windows": "tools/ffmpeg.exe", "default": "ffmpeg"}. Platform entries are
// ordered by name with the default entry last.
func NewResolver(tool string, table map[string]string, toolsDir string) *Resolver {
	candidates := make([]Candidate, 0, len(table))
	for platform, path := range table {
		platform = strings.ToLower(strings.TrimSpace(platform))
		path = strings.TrimSpace(path)
		if platform == "" || path == "" {
			continue
		}
		candidates = append(candidates, Candidate{Platform: platform, Path: path})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].Platform, candidates[j].Platform
		if (a == DefaultPlatform) != (b == DefaultPlatform) {
			return b == DefaultPlatform
		}
		return a < b
	})
	return &Resolver{
		Tool:       strings.TrimSpace(tool),
		Candidates: candidates,
		ToolsDir:   strings.TrimSpace(toolsDir),
		GOOS:       runtime.GOOS,
	}
}

// Selected returns the configured path for the current platform before any
// filesystem lookup. It is empty when the table has no usable entry.
func (r *Resolver) Selected() string {
	goos := r.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	fallback := ""
	for _, candidate := range r.Candidates {
		switch candidate.Platform {
		case goos:
			return candidate.Path
		case DefaultPlatform:
			if fallback == "" {
				fallback = candidate.Path
			}
		}
	}
	return fallback
}

// Resolve returns an absolute or PATH-resolved executable location. Failures
// carry services.ErrToolNotFound.
func (r *Resolver) Resolve() (string, error) {
	tool := r.Tool
	if tool == "" {
		tool = "tool"
	}
	selected := r.Selected()
	if selected == "" {
		return "", services.Wrap(services.ErrToolNotFound, "deps", "resolve "+tool,
			fmt.Sprintf("no %s entry for platform %q", tool, r.goos()), nil)
	}

	if !strings.ContainsAny(selected, `/\`) {
		path, err := exec.LookPath(selected)
		if err != nil {
			return "", services.Wrap(services.ErrToolNotFound, "deps", "resolve "+tool,
				fmt.Sprintf("binary %q not found on PATH", selected), err)
		}
		return path, nil
	}

	candidate := selected
	if !filepath.IsAbs(candidate) && r.ToolsDir != "" {
		candidate = filepath.Join(r.ToolsDir, filepath.FromSlash(candidate))
	}
	info, err := os.Stat(candidate)
	if err != nil {
		return "", services.Wrap(services.ErrToolNotFound, "deps", "resolve "+tool,
			fmt.Sprintf("binary %q not found", candidate), err)
	}
	if !isExecutable(info, r.goos()) {
		return "", services.Wrap(services.ErrToolNotFound, "deps", "resolve "+tool,
			fmt.Sprintf("%q is not an executable file", candidate), nil)
	}
	return candidate, nil
}

func (r *Resolver) goos() string {
	if r.GOOS == "" {
		return runtime.GOOS
	}
	return r.GOOS
}

func isExecutable(info os.FileInfo, goos string) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if goos == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
