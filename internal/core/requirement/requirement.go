package requirement

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Request is one requirement to generate a suite for. Model is optional and
// overrides the default selection when set.
type Request struct {
	Requirement string `json:"requirement" yaml:"requirement"`
	Model       string `json:"model,omitempty" yaml:"model,omitempty"`
}

// Load reads requests from a file. The extension picks the format:
//
//	.txt, .md, .markdown  the whole file is one requirement
//	.json, .yaml, .yml    a single request object or a list of them
//	.jsonl                one request object per line
func Load(path string) ([]Request, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(content, filepath.Ext(path))
}

// Parse decodes content according to the given file extension
func Parse(content []byte, ext string) ([]Request, error) {
	var (
		reqs []Request
		err  error
	)

	switch strings.ToLower(ext) {
	case ".txt", ".md", ".markdown", "":
		reqs = []Request{{Requirement: string(content)}}
	case ".json":
		reqs, err = parseStructured(content, json.Unmarshal)
	case ".yaml", ".yml":
		reqs, err = parseStructured(content, yaml.Unmarshal)
	case ".jsonl":
		reqs, err = parseJSONL(content)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}
	if err != nil {
		return nil, err
	}

	if len(reqs) == 0 {
		return nil, fmt.Errorf("no requirements found")
	}
	for i, r := range reqs {
		if strings.TrimSpace(r.Requirement) == "" {
			return nil, fmt.Errorf("requirement %d is empty", i+1)
		}
	}
	return reqs, nil
}

// parseStructured accepts either a single object or a list of objects
func parseStructured(content []byte, unmarshal func([]byte, any) error) ([]Request, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var list []Request
	if err := unmarshal(trimmed, &list); err == nil {
		return list, nil
	}

	var single Request
	if err := unmarshal(trimmed, &single); err != nil {
		return nil, fmt.Errorf("failed to parse requirements: %w", err)
	}
	return []Request{single}, nil
}

func parseJSONL(content []byte) ([]Request, error) {
	var reqs []Request

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var r Request
		if err := json.Unmarshal([]byte(text), &r); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		reqs = append(reqs, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return reqs, nil
}
