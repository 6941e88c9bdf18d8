package script

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the YAML script layout.
type File struct {
	Steps []Command `yaml:"steps"`
}

// Load parses a script, choosing YAML for .yml/.yaml names and the line
// syntax otherwise.
func Load(name string, data []byte) ([]Command, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yml", ".yaml":
		return ParseYAML(data)
	default:
		return ParseLines(data)
	}
}

// ParseLines parses line syntax. Errors carry the 1-based line number.
func ParseLines(data []byte) ([]Command, error) {
	var cmds []Command
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		cmd, ok, err := Parse(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if ok {
			cmds = append(cmds, cmd)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return cmds, nil
}

// ParseYAML parses the YAML layout. Unknown fields and operations are
// errors.
func ParseYAML(data []byte) ([]Command, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse YAML script: %w", err)
	}

	for i, step := range file.Steps {
		step.Op = Op(strings.ToLower(string(step.Op)))
		if _, ok := arity[step.Op]; !ok {
			return nil, fmt.Errorf("step %d: %w: %q", i+1, ErrUnknownCommand, step.Op)
		}
		file.Steps[i] = step
	}
	return file.Steps, nil
}

// MarshalYAML renders commands in the YAML layout.
func MarshalYAML(cmds []Command) ([]byte, error) {
	data, err := yaml.Marshal(File{Steps: cmds})
	if err != nil {
		return nil, fmt.Errorf("marshal YAML script: %w", err)
	}
	return data, nil
}
