package catalog

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/stac-utils/hydrate"
	"github.com/stac-utils/hydrate/internal/metrics"
)

// defaultMaxLine bounds one NDJSON line when no MaxBytes is configured.
const defaultMaxLine = 64 << 20

// Format is the framing of a stream of items.
type Format int

const (
	// FormatNDJSON is one JSON document per line.
	FormatNDJSON Format = iota
	// FormatArray is a single top-level JSON array of items.
	FormatArray
)

func (f Format) String() string {
	if f == FormatArray {
		return "array"
	}
	return "ndjson"
}

// Stats summarizes a HydrateStream run.
type Stats struct {
	Format   Format
	Items    int // items read
	Hydrated int
	Orphans  int
}

type job struct {
	seq  int
	pos  string
	raw  []byte
	item hydrate.Value
}

type result struct {
	seq    int
	out    []byte
	orphan bool
	err    error
}

// HydrateStream reads items from r and writes the hydrated items to w in
// input order. Input is NDJSON, or a JSON array when the first non-space
// byte is '['; output uses the same framing. Blank NDJSON lines are skipped.
// Items are hydrated by the configured number of workers. The first failing
// item in input order stops the run: nothing at or after it is written and
// its error is returned.
func (h *Hydrator) HydrateStream(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	// abort stops producer and workers. stopReading only stops the producer
	// and idle workers; an item already taken by a worker is always delivered.
	workCtx, abort := context.WithCancel(ctx)
	defer abort()
	readCtx, stopReading := context.WithCancel(workCtx)
	defer stopReading()

	br := bufio.NewReaderSize(r, 64<<10)
	stats := Stats{Format: detectFormat(br)}

	jobs := make(chan job, h.workers)
	results := make(chan result, h.workers)

	var read atomic.Int64
	var readErr error
	go func() {
		defer close(jobs)
		readErr = h.produce(readCtx, br, stats.Format, jobs, &read)
	}()

	var wg sync.WaitGroup
	for range h.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				var j job
				var ok bool
				select {
				case j, ok = <-jobs:
				case <-readCtx.Done():
					return
				}
				if !ok {
					return
				}
				res := h.process(workCtx, j)
				select {
				case results <- res:
				case <-workCtx.Done():
					return
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	out := bufio.NewWriter(w)
	pending := make(map[int]result)
	next := 0
	failed := -1
	var firstErr error
	var writeErr error

	if stats.Format == FormatArray {
		writeErr = out.WriteByte('[')
	}
	for res := range results {
		if res.err != nil {
			if failed < 0 || res.seq < failed {
				failed, firstErr = res.seq, res.err
			}
			stopReading()
			continue
		}
		pending[res.seq] = res
		for writeErr == nil {
			p, ok := pending[next]
			if !ok || (failed >= 0 && next >= failed) {
				break
			}
			delete(pending, next)
			writeErr = h.writeItem(out, stats.Format, next, p.out)
			if p.orphan {
				stats.Orphans++
			} else {
				stats.Hydrated++
			}
			next++
		}
		if writeErr != nil {
			abort()
		}
	}
	stats.Items = int(read.Load())

	if writeErr != nil {
		return stats, fmt.Errorf("write output: %w", writeErr)
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	// Without a failure or cancellation the workers only stop once jobs is
	// closed, so readErr is settled here. Items are sent in order, so every
	// item before a failing one was already taken by a worker when reading
	// stopped.
	if firstErr == nil && readErr != nil {
		firstErr = readErr
	}
	if firstErr != nil {
		h.log.Error("stream stopped", "format", stats.Format, "written", next, "error", firstErr)
		_ = out.Flush()
		return stats, firstErr
	}
	if stats.Format == FormatArray {
		if _, err := out.WriteString("]\n"); err != nil {
			return stats, fmt.Errorf("write output: %w", err)
		}
	}
	if err := out.Flush(); err != nil {
		return stats, fmt.Errorf("write output: %w", err)
	}
	h.log.Info("stream hydrated", "format", stats.Format, "items", stats.Items, "hydrated", stats.Hydrated, "orphans", stats.Orphans)
	return stats, nil
}

func detectFormat(br *bufio.Reader) Format {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return FormatNDJSON
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '[':
			_ = br.UnreadByte()
			return FormatArray
		default:
			_ = br.UnreadByte()
			return FormatNDJSON
		}
	}
}

// produce feeds jobs until input is exhausted or ctx is cancelled, counting
// items read in n.
func (h *Hydrator) produce(ctx context.Context, br *bufio.Reader, format Format, jobs chan<- job, n *atomic.Int64) error {
	send := func(j job) error {
		select {
		case jobs <- j:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if format == FormatArray {
		return hydrate.DecodeEach(ctx, hydrate.JSONReader(br), func(i int, v hydrate.Value) error {
			n.Add(1)
			return send(job{seq: i, pos: fmt.Sprintf("item %d", i), item: v})
		}, h.decode)
	}

	sc := bufio.NewScanner(br)
	maxLine := defaultMaxLine
	if h.decode.MaxBytes > 0 {
		maxLine = int(h.decode.MaxBytes) + 1
	}
	sc.Buffer(make([]byte, 0, 64<<10), maxLine)
	seq, line := 0, 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		j := job{seq: seq, pos: fmt.Sprintf("line %d", line), raw: bytes.Clone(raw)}
		seq++
		n.Add(1)
		if err := send(j); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("line %d: %w", line+1, err)
	}
	return nil
}

func (h *Hydrator) process(ctx context.Context, j job) result {
	item := j.item
	if j.raw != nil {
		v, err := hydrate.DecodeJSON(j.raw, h.decode)
		if err != nil {
			h.metrics.Item(metrics.OutcomeError, 0)
			return result{seq: j.seq, err: fmt.Errorf("%s: %w", j.pos, err)}
		}
		item = v
	}
	out, err := h.HydrateItem(ctx, item)
	if err != nil {
		h.log.Debug("item failed", "pos", j.pos, "error", err)
		return result{seq: j.seq, err: fmt.Errorf("%s: %w", j.pos, err)}
	}
	_, hasCollection := h.Collection(item)
	return result{seq: j.seq, out: hydrate.AppendJSON(nil, out), orphan: !hasCollection}
}

func (h *Hydrator) writeItem(w *bufio.Writer, format Format, i int, doc []byte) error {
	if format == FormatArray && i > 0 {
		if err := w.WriteByte(','); err != nil {
			return err
		}
	}
	if _, err := w.Write(doc); err != nil {
		return err
	}
	if format == FormatNDJSON {
		return w.WriteByte('\n')
	}
	return nil
}
