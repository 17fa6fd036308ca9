package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Job is one input file and the subtitle file it produces.
type Job struct {
	ID     string
	Index  int
	Total  int
	Input  string
	Output string
}

// Name returns the input file name.
func (j Job) Name() string {
	return filepath.Base(j.Input)
}

// Discover lists eligible files in the input directory in lexicographic
// order. Subdirectories are not descended into.
func (r *Runner) Discover() ([]Job, error) {
	entries, err := os.ReadDir(r.opts.InputDir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !isRegularFile(r.opts.InputDir, entry) {
			continue
		}
		if r.opts.Accepts(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	outputs := outputNames(names, r.opts.outputExt())
	jobs := make([]Job, 0, len(names))
	for i, name := range names {
		jobs = append(jobs, Job{
			ID:     uuid.NewString(),
			Index:  i + 1,
			Total:  len(names),
			Input:  filepath.Join(r.opts.InputDir, name),
			Output: filepath.Join(r.opts.OutputDir, outputs[i]),
		})
	}
	return jobs, nil
}

// NewJob builds a single job for path, as used by watch mode. The output name
// follows the same collision rule as Discover, applied against the eligible
// files currently in the input directory.
func (r *Runner) NewJob(path string) Job {
	name := filepath.Base(path)
	names := []string{name}
	if entries, err := os.ReadDir(filepath.Dir(path)); err == nil {
		for _, entry := range entries {
			if entry.Name() != name && isRegularFile(filepath.Dir(path), entry) && r.opts.Accepts(entry.Name()) {
				names = append(names, entry.Name())
			}
		}
	}
	return Job{
		ID:     uuid.NewString(),
		Index:  1,
		Total:  1,
		Input:  path,
		Output: filepath.Join(r.opts.OutputDir, outputNames(names, r.opts.outputExt())[0]),
	}
}

// outputNames maps each input name to "<stem><ext>". Inputs whose stems
// collide (clip.mp4 and clip.mkv) keep their full name instead so no output
// overwrites another.
func outputNames(names []string, ext string) []string {
	counts := make(map[string]int, len(names))
	for _, name := range names {
		counts[strings.ToLower(stem(name))]++
	}
	out := make([]string, len(names))
	for i, name := range names {
		if counts[strings.ToLower(stem(name))] > 1 {
			out[i] = name + ext
			continue
		}
		out[i] = stem(name) + ext
	}
	return out
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func isRegularFile(dir string, entry os.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}
