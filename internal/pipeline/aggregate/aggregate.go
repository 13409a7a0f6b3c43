// Package aggregate merges per-shard output directories into a single
// stage-level result.
package aggregate

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mpavic/stagehand/internal/pipeline/core"
)

// Policy selects how one file type is merged across shards.
type Policy int

const (
	// PolicyConcat concatenates shard files in ascending shard order. This
	// is the default for statistics files whose rows are per-key records.
	PolicyConcat Policy = iota

	// PolicyMeanOfRecords averages the last numeric field of every record
	// across all shards and writes the single resulting value. Used for
	// per-record scoring metrics.
	PolicyMeanOfRecords
)

// Aggregate merges the shard output directories, given in ascending shard
// order, into dest. Policies map slash-style glob patterns (relative to a
// shard directory) to a merge policy; unmatched files fall back to
// PolicyConcat.
//
// Every shard directory must exist and every merged file must be present in
// every shard; anything missing fails with ErrMissingShardOutput before a
// single byte lands in dest. The merge is staged in a temporary directory
// and renamed in only once complete, so a failed aggregation leaves dest
// untouched.
func Aggregate(shardDirs []string, dest string, policies map[string]Policy) error {
	if len(shardDirs) == 0 {
		return fmt.Errorf("%w: no shard directories given", core.ErrInvalidArgument)
	}

	for _, dir := range shardDirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("%w: %s", core.ErrMissingShardOutput, dir)
		}
	}

	relFiles, err := collectRelativeFiles(shardDirs)
	if err != nil {
		return err
	}

	// All validation happens against the shard trees before dest is touched.
	for _, rel := range relFiles {
		for _, dir := range shardDirs {
			if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
				return fmt.Errorf("%w: %s has no %s", core.ErrMissingShardOutput, dir, rel)
			}
		}
	}

	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("creating aggregation parent: %w", err)
	}
	staging, err := os.MkdirTemp(parent, ".aggregate-")
	if err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	for _, rel := range relFiles {
		out := filepath.Join(staging, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return err
		}

		switch policyFor(rel, policies) {
		case PolicyMeanOfRecords:
			err = mergeMean(shardDirs, rel, out)
		default:
			err = mergeConcat(shardDirs, rel, out)
		}
		if err != nil {
			return fmt.Errorf("merging %s: %w", rel, err)
		}
	}

	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("clearing previous aggregation: %w", err)
	}
	return os.Rename(staging, dest)
}

// collectRelativeFiles returns the sorted union of regular file paths,
// relative to their shard directory, in slash form.
func collectRelativeFiles(shardDirs []string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, dir := range shardDirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			seen[filepath.ToSlash(rel)] = struct{}{}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking shard output %s: %w", dir, err)
		}
	}

	files := make([]string, 0, len(seen))
	for rel := range seen {
		files = append(files, rel)
	}
	sort.Strings(files)
	return files, nil
}

// policyFor matches rel against the policy patterns in sorted pattern order
// so the choice never depends on map iteration.
func policyFor(rel string, policies map[string]Policy) Policy {
	patterns := make([]string, 0, len(policies))
	for p := range policies {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)

	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return policies[pattern]
		}
	}
	return PolicyConcat
}

func mergeConcat(shardDirs []string, rel, out string) error {
	dst, err := os.Create(out)
	if err != nil {
		return err
	}
	defer dst.Close()

	for _, dir := range shardDirs {
		src, err := os.Open(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return err
		}
		_, err = io.Copy(dst, src)
		src.Close()
		if err != nil {
			return err
		}
	}
	return dst.Sync()
}

// mergeMean averages the last whitespace-separated field of every
// non-empty record line across all shards.
func mergeMean(shardDirs []string, rel, out string) error {
	var sum float64
	var count int

	for _, dir := range shardDirs {
		file, err := os.Open(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return err
		}

		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			fields := strings.Fields(scanner.Text())
			if len(fields) == 0 {
				continue
			}
			value, err := strconv.ParseFloat(fields[len(fields)-1], 64)
			if err != nil {
				file.Close()
				return fmt.Errorf("record %q in %s is not numeric: %w", scanner.Text(), dir, err)
			}
			sum += value
			count++
		}
		err = scanner.Err()
		file.Close()
		if err != nil {
			return err
		}
	}

	if count == 0 {
		return fmt.Errorf("no records to average in %s", rel)
	}
	return os.WriteFile(out, []byte(fmt.Sprintf("%.6f\n", sum/float64(count))), 0o644)
}
