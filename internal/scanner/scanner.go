// Package scanner walks directory trees and reports where the bytes went.
package scanner

import (
	"io/fs"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
	"github.com/shirou/gopsutil/v4/disk"

	"github.com/lazyscan-project/lazyscan/pkg/model"
	"github.com/lazyscan-project/lazyscan/pkg/pathutil"
)

// FileEntry is one regular file found during a scan.
type FileEntry struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Report summarizes one scan.
type Report struct {
	Root       string          `json:"root"`
	TotalBytes int64           `json:"total_bytes"`
	FileCount  int64           `json:"file_count"`
	Largest    []FileEntry     `json:"largest"`
	Volume     *disk.UsageStat `json:"volume,omitempty"`
}

// Scanner finds the largest files under a root.
type Scanner struct {
	topN int
}

// New creates a scanner keeping the topN largest files.
func New(topN int) *Scanner {
	if topN <= 0 {
		topN = 20
	}
	return &Scanner{topN: topN}
}

// Scan walks root without following symlinks. Unreadable entries are
// skipped, not fatal: a cache scan should survive permission-denied
// subtrees.
func (s *Scanner) Scan(root string) (*Report, error) {
	canonical, err := pathutil.Canonicalize(root)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		entries []FileEntry
		total   atomic.Int64
		count   atomic.Int64
	)

	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, canonical, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if de.IsDir() || !de.Type().IsRegular() {
			return nil
		}
		info, err := de.Info()
		if err != nil {
			return nil
		}

		size := info.Size()
		total.Add(size)
		count.Add(1)

		mu.Lock()
		entries = append(entries, FileEntry{Path: path, Size: size})
		// Keep the candidate set bounded on huge trees.
		if len(entries) > s.topN*8 {
			sortBySizeDesc(entries)
			entries = entries[:s.topN]
		}
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortBySizeDesc(entries)
	if len(entries) > s.topN {
		entries = entries[:s.topN]
	}

	report := &Report{
		Root:       canonical,
		TotalBytes: total.Load(),
		FileCount:  count.Load(),
		Largest:    entries,
	}

	// Volume stats are best-effort decoration.
	if usage, err := disk.Usage(canonical); err == nil {
		report.Volume = usage
	}

	return report, nil
}

// Candidates converts the largest entries into candidate paths for the
// deletion pipeline.
func (r *Report) Candidates(category model.Category) []model.CandidatePath {
	out := make([]model.CandidatePath, 0, len(r.Largest))
	for _, e := range r.Largest {
		out = append(out, model.CandidatePath{
			Path:          e.Path,
			Category:      category,
			EstimatedSize: e.Size,
			DiscoveredBy:  "scanner",
		})
	}
	return out
}

func sortBySizeDesc(entries []FileEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Size != entries[j].Size {
			return entries[i].Size > entries[j].Size
		}
		return entries[i].Path < entries[j].Path
	})
}
