package prettytrace

import (
	"os"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// sourceCacheSize bounds the number of distinct files kept while rendering
// one trace. Deep traces usually revisit a handful of files.
const sourceCacheSize = 32

type sourceEntry struct {
	lines []string
	err   error
}

// sourceCache memoises file contents for the duration of a single Format
// call so frames pointing into the same file read it once.
type sourceCache struct {
	files  *lru.Cache[string, sourceEntry]
	logger *zap.Logger
}

func newSourceCache(logger *zap.Logger) *sourceCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	// lru.New only fails for a non-positive size.
	files, _ := lru.New[string, sourceEntry](sourceCacheSize)
	return &sourceCache{files: files, logger: logger}
}

func (c *sourceCache) lines(filename string) ([]string, error) {
	if entry, ok := c.files.Get(filename); ok {
		return entry.lines, entry.err
	}
	data, err := os.ReadFile(filename)
	var entry sourceEntry
	if err != nil {
		c.logger.Debug("source unavailable", zap.String("file", filename), zap.Error(err))
		entry.err = err
	} else {
		entry.lines = strings.Split(string(data), "\n")
	}
	c.files.Add(filename, entry)
	return entry.lines, entry.err
}

// line returns the 1-based source line without its line terminator.
func (c *sourceCache) line(filename string, n int) (string, bool) {
	lines, err := c.lines(filename)
	if err != nil || n < 1 || n > len(lines) {
		return "", false
	}
	return strings.TrimSuffix(lines[n-1], "\r"), true
}

// firstCodeColumn is the 1-based column of the first non-blank character of
// line n, or 1 when the line is blank or missing.
func firstCodeColumn(lines []string, n int) int {
	if n < 1 || n > len(lines) {
		return 1
	}
	line := lines[n-1]
	trimmed := strings.TrimLeft(line, " \t")
	if strings.TrimSpace(trimmed) == "" {
		return 1
	}
	return jsLen(line[:len(line)-len(trimmed)]) + 1
}
