package references

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"codeberg.org/snonux/mangatl/internal"
)

// Group holds the acceptable translations of one position. In YAML and
// JSON it may be written as a single string or as a list of strings.
type Group []string

// UnmarshalYAML accepts a scalar or a sequence of scalars
func (g *Group) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*g = Group{node.Value}
		return nil
	case yaml.SequenceNode:
		var refs []string
		if err := node.Decode(&refs); err != nil {
			return err
		}
		*g = refs
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
	}
}

// Load reads a reference file. Files ending in .yaml, .yml or .json are
// parsed as a list of groups; anything else is read as text.
func Load(path string) ([][]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &internal.InputError{Path: path, Err: fmt.Errorf("failed to read reference file: %w", err)}
	}

	var refs [][]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		refs, err = ParseYAML(content)
	default:
		refs, err = ParseText(content)
	}
	if err != nil {
		return nil, &internal.InputError{Path: path, Err: err}
	}
	return refs, nil
}

// ParseYAML parses a YAML or JSON list of groups
func ParseYAML(content []byte) ([][]string, error) {
	var groups []Group
	if err := yaml.Unmarshal(content, &groups); err != nil {
		return nil, fmt.Errorf("failed to parse references: %w", err)
	}

	refs := make([][]string, len(groups))
	for i, g := range groups {
		refs[i] = []string(g)
	}
	return refs, nil
}

// ParseText parses the text format. Supports:
// - One reference per line: "Good morning!"
// - Alternatives separated by '|': "Good morning! | Morning!"
// Empty lines and lines starting with '#' are skipped.
func ParseText(content []byte) ([][]string, error) {
	refs := [][]string{}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var group []string
		for _, alt := range strings.Split(line, "|") {
			if alt = strings.TrimSpace(alt); alt != "" {
				group = append(group, alt)
			}
		}
		if len(group) == 0 {
			return nil, fmt.Errorf("line %q holds no reference", line)
		}
		refs = append(refs, group)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan references: %w", err)
	}

	return refs, nil
}
