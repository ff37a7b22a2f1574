// Package duplicates finds repeated code blocks with a sliding-window hash.
// It is the fallback used when the external similarity tool is unavailable.
package duplicates

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/avelaro/vitals/pkg/models"
	"github.com/avelaro/vitals/pkg/sourcemodel"
)

// Options control the sliding window.
type Options struct {
	Window   int // block size in lines
	MinChars int // normalized blocks shorter than this are skipped
	Cap      int // maximum number of reported duplicates
}

// DefaultOptions returns the canonical window parameters.
func DefaultOptions() Options {
	return Options{Window: 5, MinChars: 50, Cap: 50}
}

// Duplicate is one detected repeated block.
type Duplicate struct {
	File        string `json:"file"`
	Line        uint32 `json:"line"`
	SimilarTo   string `json:"similar_to"`
	SimilarLine uint32 `json:"similar_line"`
	Window      int    `json:"window"`
}

type blockRef struct {
	file string
	line uint32
}

// Detect slides a window over every file, hashing whitespace-normalized
// blocks. Two blocks with the same hash are reported when they live in
// different files, or in the same file further apart than the window.
// Hash collisions are accepted without content verification.
func Detect(files []*sourcemodel.File, opts Options) []Duplicate {
	var duplicates []Duplicate
	buckets := make(map[uint64][]blockRef)

	for _, f := range files {
		if len(f.Lines) < opts.Window {
			continue
		}
		for i := 0; i+opts.Window <= len(f.Lines); i++ {
			block := strings.Join(f.Lines[i:i+opts.Window], "\n")
			normalized := strings.Join(strings.Fields(block), " ")
			if len(normalized) < opts.MinChars {
				continue
			}

			h := xxhash.Sum64String(normalized)
			line := uint32(i + 1)

			if refs, seen := buckets[h]; seen {
				for _, existing := range refs {
					if existing.file != f.RelPath || absDiff(existing.line, line) > uint32(opts.Window) {
						duplicates = append(duplicates, Duplicate{
							File:        f.RelPath,
							Line:        line,
							SimilarTo:   existing.file,
							SimilarLine: existing.line,
							Window:      opts.Window,
						})
						break
					}
				}
			}
			buckets[h] = append(buckets[h], blockRef{file: f.RelPath, line: line})
		}
	}

	if len(duplicates) > opts.Cap {
		duplicates = duplicates[:opts.Cap]
	}
	return duplicates
}

// Issues converts duplicates into reusability findings.
func Issues(dups []Duplicate) []models.Issue {
	issues := make([]models.Issue, 0, len(dups))
	for _, d := range dups {
		issues = append(issues, models.Issue{
			Severity:  models.SeverityLow,
			Dimension: models.DimReusability,
			File:      d.File,
			Line:      d.Line,
			Message:   fmt.Sprintf("Similar code block (%d lines)", d.Window),
			Metrics: map[string]any{
				"kind":         "duplicate_block",
				"similar_to":   d.SimilarTo,
				"similar_line": d.SimilarLine,
			},
			Automated: true,
			Source:    "hash_detection",
		})
	}
	return issues
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
