package pipeline

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/sandbox-validator/internal/model"
	"github.com/ppiankov/sandbox-validator/internal/validate"
	"github.com/ppiankov/sandbox-validator/internal/worker"
)

// Record file formats, chosen by extension.
const (
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatYAML  = "yaml"
)

// FormatOf returns the record file format for path. Unknown extensions are JSON.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadItems reads a batch file: a JSON array or object, JSON lines, or a YAML
// list or document. Every record becomes one raw JSON item so each is
// validated on its own.
func LoadItems(path string) ([]worker.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	return ParseItems(filepath.Base(path), FormatOf(path), data)
}

// ParseItems splits data into batch items labelled name#N (1-based).
func ParseItems(name, format string, data []byte) ([]worker.Item, error) {
	var docs []json.RawMessage
	var err error

	switch format {
	case FormatJSONL:
		docs, err = splitJSONLines(data)
	case FormatYAML:
		docs, err = splitYAML(data)
	default:
		docs, err = splitJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	items := make([]worker.Item, len(docs))
	for i, doc := range docs {
		items[i] = worker.Item{Label: fmt.Sprintf("%s#%d", name, i+1), Data: doc}
	}
	return items, nil
}

// LoadRecord reads and validates a single record file (JSON or YAML, bare or
// enveloped).
func LoadRecord(path string) (model.ExperimentRecord, error) {
	items, err := LoadItems(path)
	if err != nil {
		return model.ExperimentRecord{}, err
	}
	if len(items) != 1 {
		return model.ExperimentRecord{}, fmt.Errorf("%s: expected one record, found %d", path, len(items))
	}
	return validate.Record(items[0].Data)
}

// LoadResult reads a previously rendered evaluation result (JSON or YAML).
func LoadResult(path string) (model.EvaluationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.EvaluationResult{}, fmt.Errorf("read result file: %w", err)
	}

	var result model.EvaluationResult
	if FormatOf(path) == FormatYAML {
		err = yaml.Unmarshal(data, &result)
	} else {
		err = json.Unmarshal(data, &result)
	}
	if err != nil {
		return model.EvaluationResult{}, fmt.Errorf("parse result file: %w", err)
	}
	if len(result.Breakdown) == 0 {
		return model.EvaluationResult{}, fmt.Errorf("%s: not an evaluation result", path)
	}
	return result, nil
}

func splitJSON(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("invalid JSON")
		}
		return []json.RawMessage{trimmed}, nil
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(trimmed, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// splitJSONLines keeps malformed lines as items so they are reported per record.
func splitJSONLines(data []byte) ([]json.RawMessage, error) {
	var docs []json.RawMessage
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		docs = append(docs, json.RawMessage(bytes.Clone(line)))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

func splitYAML(data []byte) ([]json.RawMessage, error) {
	var root any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, nil
	}

	list, ok := root.([]any)
	if !ok {
		list = []any{root}
	}

	docs := make([]json.RawMessage, len(list))
	for i, v := range list {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		docs[i] = raw
	}
	return docs, nil
}
