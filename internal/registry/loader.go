package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoModel is returned when no *.gguf file matches the requested model.
var ErrNoModel = errors.New("no matching gguf model")

// Model is a GGUF weights file found on disk.
type Model struct {
	// ID is the full filename, e.g. "qwen2.5-7b-instruct-q4_k_m.gguf".
	ID   string
	Path string
	Size int64
}

// LoadDir scans a directory for *.gguf files, sorted by ID.
func LoadDir(dir string) ([]Model, error) {
	base, err := expandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []Model
	for _, e := range entries {
		if e.IsDir() { continue }
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".gguf") { continue }
		var size int64
		if fi, err := e.Info(); err == nil {
			size = fi.Size()
		}
		models = append(models, Model{ID: name, Path: filepath.Join(abs, name), Size: size})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

// Resolve picks the weights file for the in-process runtime. A file path is
// returned as is. For a directory the candidates are matched against name:
// exact filename, filename without extension, then the last segment of a
// hub-style name ("Org/Model-7B") contained in the filename, case-insensitive.
// A directory holding a single model resolves to it regardless of name.
func Resolve(path, name string) (Model, error) {
	p, err := expandHome(strings.TrimSpace(path))
	if err != nil {
		return Model{}, err
	}
	if p == "" {
		return Model{}, fmt.Errorf("%w: empty model path", ErrNoModel)
	}
	fi, err := os.Stat(p)
	if err != nil {
		return Model{}, fmt.Errorf("stat model path: %w", err)
	}
	if !fi.IsDir() {
		abs, err := filepath.Abs(p)
		if err != nil {
			return Model{}, fmt.Errorf("abs path: %w", err)
		}
		return Model{ID: filepath.Base(abs), Path: abs, Size: fi.Size()}, nil
	}
	models, err := LoadDir(p)
	if err != nil {
		return Model{}, err
	}
	if len(models) == 0 {
		return Model{}, fmt.Errorf("%w in %s", ErrNoModel, p)
	}
	if len(models) == 1 {
		return models[0], nil
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for _, m := range models {
		id := strings.ToLower(m.ID)
		if id == want || strings.TrimSuffix(id, ".gguf") == want {
			return m, nil
		}
	}
	if seg := want[strings.LastIndex(want, "/")+1:]; seg != "" {
		for _, m := range models {
			if strings.Contains(strings.ToLower(m.ID), seg) {
				return m, nil
			}
		}
	}
	return Model{}, fmt.Errorf("%w for %q in %s", ErrNoModel, name, p)
}

// expandHome expands a leading '~' to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" { return path, nil }
	if path[0] != '~' { return path, nil }
	home, err := os.UserHomeDir()
	if err != nil { return "", fmt.Errorf("home dir: %w", err) }
	if path == "~" { return home, nil }
	// handle cases like ~/models/llm
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
