// Package keylist reads and writes key files: ordered lists of unique
// identifiers (utterance IDs in Kaldi-style scp files) used to partition
// work. The key is the first whitespace-separated field of each line; the
// rest of the line, if any, is ignored.
package keylist

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const defaultBufferSize = 1024 * 1024 // 1MB

// Read loads the keys from path, preserving file order. Blank lines are
// skipped; a duplicate key is an error, since duplicates would break the
// partition invariant downstream.
func Read(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, defaultBufferSize), defaultBufferSize)

	var keys []string
	seen := make(map[string]struct{})
	for line := 1; scanner.Scan(); line++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		key := fields[0]
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate key %q at %s:%d", key, path, line)
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("key file %s contains no keys", path)
	}
	return keys, nil
}

// WriteSlice writes one key per line to path, creating parent directories
// as needed. Existing files are overwritten, never appended to.
func WriteSlice(path string, keys []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, key := range keys {
		if _, err := w.WriteString(key + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}

// SliceFileName names the key slice file for a shard, 1-based.
func SliceFileName(dir string, shardID int) string {
	return filepath.Join(dir, fmt.Sprintf("keys.%d.scp", shardID))
}
