package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/zap"

	"pkt.systems/prettytrace"
)

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// parseInput extracts every stack trace found in data. Input starting with
// '{' is treated as a stream of JSON log records; anything else as plain
// text, possibly holding several traces between other log lines.
func parseInput(data []byte, logger *zap.Logger) ([]*prettytrace.Error, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '{' {
		return parseJSONRecords(trimmed, logger)
	}
	var out []*prettytrace.Error
	for _, block := range splitTraces(string(data)) {
		e, err := prettytrace.ParseError(block)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// errorRecord is the subset of a structured log entry that describes an
// error. Loggers disagree on key names, so both common spellings are read.
type errorRecord struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Msg     string `json:"msg"`
	Stack   string `json:"stack"`
}

func (r errorRecord) toError() (*prettytrace.Error, error) {
	e, err := prettytrace.ParseError(r.Stack)
	if err != nil {
		return nil, err
	}
	if name := firstNonEmpty(r.Name, r.Type); name != "" {
		e.Name = name
	}
	if msg := firstNonEmpty(r.Message, r.Msg); msg != "" && !strings.Contains(r.Stack, msg) {
		e.Message = msg
	}
	return e, nil
}

func parseJSONRecords(data []byte, logger *zap.Logger) ([]*prettytrace.Error, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var out []*prettytrace.Error
	for n := 1; ; n++ {
		var doc json.RawMessage
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, fmt.Errorf("record %d: %w", n, err)
		}
		rec, ok := findErrorRecord(doc)
		if !ok {
			logger.Debug("record has no stack", zap.Int("record", n))
			continue
		}
		e, err := rec.toError()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", n, err)
		}
		out = append(out, e)
	}
}

// findErrorRecord looks for a stack at the top level of a record, then under
// the "err" and "error" keys used by pino and bunyan style loggers.
func findErrorRecord(doc json.RawMessage) (errorRecord, bool) {
	var top errorRecord
	if json.Unmarshal(doc, &top) == nil && top.Stack != "" {
		return top, true
	}
	var nested struct {
		Err   json.RawMessage `json:"err"`
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(doc, &nested) != nil {
		return errorRecord{}, false
	}
	for _, candidate := range []json.RawMessage{nested.Err, nested.Error} {
		var rec errorRecord
		if len(candidate) > 0 && json.Unmarshal(candidate, &rec) == nil && rec.Stack != "" {
			return rec, true
		}
	}
	return errorRecord{}, false
}

const uncaughtPrefix = "Uncaught "

var errorHeaderPattern = regexp.MustCompile(`^(Uncaught )?[A-Za-z_$][\w$.]*(Error|Exception)\b`)

// splitTraces cuts text into one block per trace. A block ends after its last
// frame line. Lines before the first frame of a block are its header, starting
// from the last line that looks like an error name when there is one.
func splitTraces(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var (
		blocks []string
		header []string
		frames []string
	)
	flush := func() {
		if len(frames) == 0 {
			return
		}
		start := 0
		for i, line := range header {
			if errorHeaderPattern.MatchString(strings.TrimSpace(line)) {
				start = i
			}
		}
		head := slices.Clone(header[start:])
		if len(head) > 0 {
			head[0] = strings.TrimPrefix(strings.TrimSpace(head[0]), uncaughtPrefix)
		}
		blocks = append(blocks, strings.Join(append(head, frames...), "\n"))
		header, frames = nil, nil
	}
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "at ") {
			frames = append(frames, line)
			continue
		}
		flush()
		if strings.TrimSpace(line) == "" {
			header = nil
			continue
		}
		header = append(header, line)
	}
	flush()
	return blocks
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
