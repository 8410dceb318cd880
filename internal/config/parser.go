package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse overlays YAML content onto base and validates the result.
// Keys absent from content keep their base values; unknown keys are rejected.
func Parse(content string, base Config) (Config, []Warning, error) {
	cfg := base
	var doc yaml.Node
	if strings.TrimSpace(content) != "" {
		if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
			return Config{}, nil, fmt.Errorf("decode yaml: %w", err)
		}

		decoder := yaml.NewDecoder(strings.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, nil, fmt.Errorf("decode yaml: %w", err)
		}

		var extra yaml.Node
		if err := decoder.Decode(&extra); err == nil {
			return Config{}, nil, errors.New("multiple YAML documents are not allowed")
		} else if !errors.Is(err, io.EOF) {
			return Config{}, nil, fmt.Errorf("decode yaml: %w", err)
		}
	}

	warnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	for i := range warnings {
		warnings[i].Line = keyLine(&doc, warnings[i].Key)
	}
	return cfg, warnings, nil
}

// keyLine returns the line of the dotted key in doc, or 0 when absent.
func keyLine(doc *yaml.Node, key string) int {
	if key == "" || doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return 0
	}
	node := doc.Content[0]
	line := 0
	for _, part := range strings.Split(key, ".") {
		if node.Kind != yaml.MappingNode {
			return 0
		}
		var next *yaml.Node
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == part {
				line = node.Content[i].Line
				next = node.Content[i+1]
				break
			}
		}
		if next == nil {
			return 0
		}
		node = next
	}
	return line
}
