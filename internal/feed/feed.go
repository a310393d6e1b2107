// Package feed merges product feeds into a single catalog.
//
// A feed is a gzip-compressed file with one product JSON object per line.
// Feeds are read concurrently. Each feed gets a bloom filter of its product
// IDs; an ID that tests positive against an earlier feed's filter (or
// against its own filter while it is being built) is only a candidate
// duplicate and is confirmed against exact counts before being dropped.
package feed

import (
	"bufio"
	"context"
	"os"
	"path/filepath"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/klauspost/pgzip"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/gadget-catalog/internal/domain/product"
)

const (
	defaultCapacity = 100_000
	defaultFPR      = 0.001
	maxLine         = 1 << 20
)

// Duplicate is a product dropped because an earlier line already used its ID.
type Duplicate struct {
	ID   int
	File string
	Line int
}

// Result is the outcome of Merge.
type Result struct {
	Products   []product.Product
	Duplicates []Duplicate
	// Candidates is the number of IDs flagged by the bloom filters, including
	// false positives.
	Candidates int
}

// Options tune the bloom filters. Zero values use defaults.
type Options struct {
	Capacity uint
	FPR      float64
}

type entry struct {
	product product.Product
	line    int
}

type file struct {
	path       string
	entries    []entry
	filter     *bloom.BloomFilter
	candidates map[int]struct{}
}

// Merge reads every feed in paths and returns their products in feed order,
// keeping the first occurrence of each ID.
func Merge(ctx context.Context, lg *zap.Logger, paths []string, opts Options) (*Result, error) {
	if opts.Capacity == 0 {
		opts.Capacity = defaultCapacity
	}
	if opts.FPR == 0 {
		opts.FPR = defaultFPR
	}

	files := make([]*file, len(paths))

	// Pass 1: decode feeds and build one filter per feed.
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			f, err := readFile(gctx, path, opts)
			if err != nil {
				return err
			}
			lg.Info("Feed read",
				zap.String("file", filepath.Base(path)),
				zap.Int("products", len(f.entries)),
				zap.Int("candidates", len(f.candidates)),
			)
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Pass 2: test each feed against the filters of earlier feeds.
	g, gctx = errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			for _, e := range f.entries {
				if err := gctx.Err(); err != nil {
					return err
				}
				key := e.product.Key()
				for _, earlier := range files[:i] {
					if earlier.filter.TestString(key) {
						f.candidates[e.product.ID] = struct{}{}
						break
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates := make(map[int]bool)
	for _, f := range files {
		for id := range f.candidates {
			candidates[id] = false
		}
	}

	// Confirm candidates exactly. IDs no filter flagged are unique.
	res := &Result{Candidates: len(candidates)}
	for _, f := range files {
		for _, e := range f.entries {
			id := e.product.ID
			if seen, ok := candidates[id]; ok {
				if seen {
					res.Duplicates = append(res.Duplicates, Duplicate{ID: id, File: f.path, Line: e.line})
					continue
				}
				candidates[id] = true
			}
			res.Products = append(res.Products, e.product)
		}
	}
	return res, nil
}

func readFile(ctx context.Context, path string, opts Options) (*file, error) {
	f := &file{
		path:       path,
		filter:     bloom.NewWithEstimates(opts.Capacity, opts.FPR),
		candidates: make(map[int]struct{}),
	}
	err := streamGzFile(ctx, path, func(line int, data []byte) error {
		var p product.Product
		if err := p.Decode(jx.DecodeBytes(data)); err != nil {
			return errors.Wrapf(err, "%s:%d", path, line)
		}
		if f.filter.TestOrAddString(p.Key()) {
			f.candidates[p.ID] = struct{}{}
		}
		f.entries = append(f.entries, entry{product: p, line: line})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// streamGzFile opens a gzip-compressed file and calls fn for each non-empty
// line with its 1-based line number.
func streamGzFile(ctx context.Context, path string, fn func(line int, data []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		if err := fn(line, data); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}
	return nil
}
