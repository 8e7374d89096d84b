// Package prompts loads the embedded interview question templates and LLM
// prompts. Files are JSON objects of key to template text.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// loadAll parses every embedded file once.
var loadAll = sync.OnceValues(func() (map[string]map[string]string, error) {
	names, err := fs.Glob(promptFiles, "*.json")
	if err != nil {
		return nil, err
	}
	files := make(map[string]map[string]string, len(names))
	for _, name := range names {
		data, err := promptFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", name, err)
		}
		var entries map[string]string
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", name, err)
		}
		files[name] = entries
	}
	return files, nil
})

func file(filename string) (map[string]string, error) {
	files, err := loadAll()
	if err != nil {
		return nil, err
	}
	entries, ok := files[filename]
	if !ok {
		return nil, fmt.Errorf("prompt file %s not embedded", filename)
	}
	return entries, nil
}

// Get retrieves a prompt by filename and key.
func Get(filename, key string) (string, error) {
	entries, err := file(filename)
	if err != nil {
		return "", err
	}
	prompt, ok := entries[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// Numbered returns the values of prefix-1, prefix-2, ... in order, stopping
// at the first missing index.
func Numbered(filename, prefix string) ([]string, error) {
	entries, err := file(filename)
	if err != nil {
		return nil, err
	}

	var out []string
	for i := 1; ; i++ {
		v, ok := entries[fmt.Sprintf("%s-%d", prefix, i)]
		if !ok {
			break
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no %q prompts in %s", prefix, filename)
	}
	return out, nil
}

// Format replaces {{.Key}} placeholders with values from data. Unknown
// placeholders are left as they are.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, 2*len(data))
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
