// Package lexicon loads vocabulary collections from YAML source files and
// maps them to lexicon terms for import.
package lexicon

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Loader reads and parses one lexicon source YAML file.
type Loader struct {
	filePath string
}

// NewLoader creates a loader for one source file.
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads and parses the source file.
func (l *Loader) Load() (TermFile, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return TermFile{}, fmt.Errorf("failed to read lexicon file: %w", err)
	}

	var file TermFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return TermFile{}, fmt.Errorf("failed to parse lexicon yaml %s: %w", l.filePath, err)
	}
	return file, nil
}

// ListSourceFiles returns every .yaml/.yml file under dir, sorted, so import
// runs are deterministic.
func ListSourceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
