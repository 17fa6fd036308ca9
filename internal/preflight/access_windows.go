//go:build windows

package preflight

import (
	"os"
	"path/filepath"
)

func canRead(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}

func canReadWrite(path string) error {
	if err := canRead(path); err != nil {
		return err
	}
	probe, err := os.CreateTemp(path, ".subgen-probe-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	_ = probe.Close()
	return os.Remove(filepath.Clean(name))
}
