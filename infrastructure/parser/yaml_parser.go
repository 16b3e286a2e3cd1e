// Package parser turns class configuration documents into entities.ClassConfig.
package parser

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vesselbridge/sdk/domain/entities"
	"github.com/vesselbridge/sdk/domain/errors"
	"github.com/vesselbridge/sdk/domain/ports"
)

// YamlClassConfigParser implements ClassConfigParser for YAML documents.
// The document root must be a mapping; an empty document yields an empty
// config.
type YamlClassConfigParser struct{}

// NewYamlClassConfigParser creates a new YamlClassConfigParser.
func NewYamlClassConfigParser() ports.ClassConfigParser {
	return &YamlClassConfigParser{}
}

// Parse unmarshals YAML bytes into a ClassConfig.
func (p *YamlClassConfigParser) Parse(data []byte) (entities.ClassConfig, error) {
	cfg := entities.ClassConfig{}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &errors.ConfigError{Err: err}
	}
	if len(root.Content) == 0 {
		return cfg, nil
	}
	if doc := root.Content[0]; doc.Kind != yaml.MappingNode {
		return nil, &errors.ConfigError{Err: fmt.Errorf("document root must be a mapping, got %s", kindName(doc.Kind))}
	}
	// Nested mappings must stay map[string]any, which yaml.v3 only
	// produces for a plain map target.
	var raw map[string]any
	if err := root.Decode(&raw); err != nil {
		return nil, &errors.ConfigError{Err: err}
	}
	for k, v := range raw {
		cfg[k] = v
	}
	return cfg, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return fmt.Sprintf("kind %d", k)
	}
}
