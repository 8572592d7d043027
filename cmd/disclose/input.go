package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/njchilds90/go-disclosure"
)

// readInput returns the bytes of path, or of standard input when path is "-".
func (a *app) readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(a.in)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// readDocument decodes path as YAML when its extension says so and as JSON
// otherwise.
func (a *app) readDocument(path string) (disclosure.Value, error) {
	data, err := a.readInput(path)
	if err != nil {
		return disclosure.Value{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return disclosure.ParseYAML(data)
	default:
		return disclosure.ParseJSON(data)
	}
}
