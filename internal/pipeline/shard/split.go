// Package shard partitions a key list into contiguous blocks, one per
// external task invocation.
package shard

import (
	"fmt"
	"slices"

	"github.com/mpavic/stagehand/internal/pipeline/core"
)

// Task is one partition of a key list assigned to a single external task.
// ShardID is 1-based and positional, so log and output paths stay stable
// across identical re-runs.
type Task struct {
	ShardID   int
	Keys      []string
	OutputDir string
}

// Split partitions keys into between 1 and min(n, len(keys)) shards. Keys
// are sorted lexicographically first, then cut into contiguous blocks whose
// sizes differ by at most one element. The same inputs always produce the
// same partition, which resumability and log correlation depend on. No
// shard is ever empty.
func Split(keys []string, n int) ([][]string, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: shard count must be positive, got %d", core.ErrInvalidArgument, n)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: key list is empty", core.ErrInvalidArgument)
	}

	sorted := slices.Clone(keys)
	slices.Sort(sorted)

	if n > len(sorted) {
		n = len(sorted)
	}

	base := len(sorted) / n
	extra := len(sorted) % n

	shards := make([][]string, 0, n)
	offset := 0
	for i := 0; i < n; i++ {
		size := base
		if i < extra {
			size++
		}
		shards = append(shards, sorted[offset:offset+size:offset+size])
		offset += size
	}
	return shards, nil
}

// Plan splits keys and binds each block to its shard task, with the output
// directory chosen by outDirFor. Tasks come back in shard id order.
func Plan(keys []string, n int, outDirFor func(shardID int) string) ([]Task, error) {
	blocks, err := Split(keys, n)
	if err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(blocks))
	for i, block := range blocks {
		shardID := i + 1
		tasks = append(tasks, Task{
			ShardID:   shardID,
			Keys:      block,
			OutputDir: outDirFor(shardID),
		})
	}
	return tasks, nil
}
