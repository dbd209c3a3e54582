// Package prompts holds the AI prompt catalogue: JSON files of named prompt
// templates embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// catalogue maps file name to prompt key to template text
type catalogue map[string]map[string]string

var (
	loadOnce sync.Once
	loaded   catalogue
	loadErr  error
)

// placeholder matches {{.Name}} markers left in a template
var placeholder = regexp.MustCompile(`\{\{\.([A-Za-z][A-Za-z0-9]*)\}\}`)

func load() (catalogue, error) {
	loadOnce.Do(func() {
		loaded, loadErr = readCatalogue(promptFiles)
	})
	return loaded, loadErr
}

func readCatalogue(fsys fs.FS) (catalogue, error) {
	names, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, err
	}
	c := make(catalogue, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", name, err)
		}
		var entries map[string]string
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", name, err)
		}
		c[name] = entries
	}
	return c, nil
}

// Get retrieves a prompt by filename (e.g. "scoring.json") and key
func Get(filename, key string) (string, error) {
	c, err := load()
	if err != nil {
		return "", err
	}
	entries, ok := c[filename]
	if !ok {
		return "", fmt.Errorf("unknown prompt file %s", filename)
	}
	prompt, ok := entries[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet is Get for prompts the binary cannot run without
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format replaces {{.Key}} markers with values from data. Markers without a
// value are left in place.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{{."+k+"}}", data[k])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Fill looks up a prompt and formats it, failing if any marker in the
// template has no value in data
func Fill(filename, key string, data map[string]string) (string, error) {
	template, err := Get(filename, key)
	if err != nil {
		return "", err
	}
	var missing []string
	for _, m := range placeholder.FindAllStringSubmatch(template, -1) {
		if _, ok := data[m[1]]; !ok {
			missing = append(missing, m[1])
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("prompt %s/%s: no value for %s", filename, key, strings.Join(missing, ", "))
	}
	return Format(template, data), nil
}

// List returns the prompt keys in a file, sorted
func List(filename string) ([]string, error) {
	c, err := load()
	if err != nil {
		return nil, err
	}
	entries, ok := c[filename]
	if !ok {
		return nil, fmt.Errorf("unknown prompt file %s", filename)
	}
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
