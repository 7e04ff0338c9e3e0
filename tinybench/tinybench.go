package tinybench

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/codahale/tinystat"
)

const (
	DefaultSamples  = 100
	DefaultDuration = 10 * time.Millisecond
	DefaultFilename = "bench.json"
)

// Result is a persisted benchmark, used as the baseline of the next run
type Result struct {
	Name      string    `json:"name"`
	Samples   []float64 `json:"samples"`           // Operations per second, per sample
	Reference []float64 `json:"ref,omitempty"`     // Same, for the reference implementation
	Allocs    float64   `json:"allocs"`            // Mean heap bytes per operation
	Bytes     int       `json:"bytes,omitempty"`   // Serialized size, for size rows
	RefBytes  int       `json:"refBytes,omitempty"` // Serialized size of the reference
	Timestamp int64     `json:"timestamp"`
}

// Option configures the benchmark runner
type Option func(*config)

type config struct {
	filename string
	filter   string
	samples  int
	duration time.Duration
	showRef  bool
	logger   *slog.Logger
}

// WithFile sets the file into which results are persisted
func WithFile(filename string) Option {
	return func(c *config) {
		c.filename = filename
	}
}

// WithFilter only runs the benchmarks whose name starts with the prefix
func WithFilter(prefix string) Option {
	return func(c *config) {
		c.filter = prefix
	}
}

// WithSamples sets the number of samples to collect per benchmark
func WithSamples(n int) Option {
	return func(c *config) {
		c.samples = n
	}
}

// WithDuration sets the duration of a single sample
func WithDuration(d time.Duration) Option {
	return func(c *config) {
		c.duration = d
	}
}

// WithLogger sets the logger used to report persistence failures
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithReference adds a column comparing against the reference implementation
func WithReference() Option {
	return func(c *config) {
		c.showRef = true
	}
}

// B runs benchmarks, prints one table row per benchmark and keeps the results
type B struct {
	config
	previous map[string]Result
	current  map[string]Result
}

// Run executes benchmarks with the given configuration
func Run(fn func(*B), opts ...Option) {
	cfg := config{
		filename: DefaultFilename,
		samples:  DefaultSamples,
		duration: DefaultDuration,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	runner := &B{
		config:   cfg,
		previous: load(cfg.filename),
		current:  make(map[string]Result),
	}

	runner.row("name", "time/op", "ops/s", "allocs/op", "vs prev", "vs ref")
	runner.row(dashes(28), dashes(12), dashes(12), dashes(12), dashes(18), dashes(18))
	fn(runner)
}

// Run measures the function, and the reference function if one is given
func (r *B) Run(name string, ourFn func(), refFn ...func()) {
	if !r.matches(name) {
		return
	}

	ours, allocs := r.measure(ourFn)
	result := Result{
		Name:      name,
		Samples:   ours,
		Allocs:    allocs,
		Timestamp: time.Now().Unix(),
	}

	vsRef := ""
	if len(refFn) > 0 && refFn[0] != nil {
		result.Reference, _ = r.measure(refFn[0])
		vsRef = compare(ours, result.Reference)
	}

	vsPrev := "new"
	if prev, ok := r.previous[name]; ok {
		vsPrev = compare(ours, prev.Samples)
	}

	mean := tinystat.Summarize(ours).Mean
	r.row(name, formatTime(1e9/mean), formatOps(mean), formatBytes(allocs), vsPrev, vsRef)
	r.save(result)
}

// Size reports the serialized size of a data set next to the size of the reference
// encoding of the same values. Smaller is better, so the ratio is ref/ours.
func (r *B) Size(name string, ours, ref int) {
	if !r.matches(name) {
		return
	}

	vsPrev := "new"
	if prev, ok := r.previous[name]; ok && prev.Bytes > 0 {
		vsPrev = fmt.Sprintf("%.2fx", float64(prev.Bytes)/float64(max(ours, 1)))
	}

	vsRef := fmt.Sprintf("%.2fx", float64(ref)/float64(max(ours, 1)))
	r.row(name, "", "", formatBytes(float64(ours)), vsPrev, vsRef)
	r.save(Result{
		Name:      name,
		Bytes:     ours,
		RefBytes:  ref,
		Timestamp: time.Now().Unix(),
	})
}

// matches checks whether the benchmark passes the name filter
func (r *B) matches(name string) bool {
	return r.filter == "" || strings.HasPrefix(name, r.filter)
}

// measure collects samples of operations per second, along with the mean heap
// bytes allocated per operation across all of the samples.
func (r *B) measure(fn func()) (samples []float64, allocs float64) {
	samples = make([]float64, 0, r.samples)
	var bytes, ops float64
	for i := 0; i < r.samples; i++ {
		runtime.GC()
		var before, after runtime.MemStats
		runtime.ReadMemStats(&before)

		n, start := 0, time.Now()
		for time.Since(start) < r.duration {
			fn()
			n++
		}

		elapsed := time.Since(start)
		runtime.ReadMemStats(&after)

		samples = append(samples, float64(n)/elapsed.Seconds())
		bytes += float64(after.TotalAlloc - before.TotalAlloc)
		ops += float64(n)
	}

	if ops > 0 {
		allocs = bytes / ops
	}
	return
}

// row prints one line of the table, the reference column only when enabled
func (r *B) row(name, perOp, ops, allocs, vsPrev, vsRef string) {
	if r.showRef {
		fmt.Printf("%-28s %-12s %-12s %-12s %-18s %-18s\n", name, perOp, ops, allocs, vsPrev, vsRef)
		return
	}

	fmt.Printf("%-28s %-12s %-12s %-12s %-18s\n", name, perOp, ops, allocs, vsPrev)
}

// save merges the result into the file, so an interrupted run keeps what it measured
func (r *B) save(result Result) {
	r.current[result.Name] = result

	merged := load(r.filename)
	for name, v := range r.current {
		merged[name] = v
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		r.logger.Error("unable to encode results", "error", err)
		return
	}

	if err := os.WriteFile(r.filename, data, 0644); err != nil {
		r.logger.Error("unable to write results", "file", r.filename, "error", err)
	}
}

// load reads the persisted results, a missing or unreadable file is an empty baseline
func load(filename string) map[string]Result {
	out := make(map[string]Result)
	data, err := os.ReadFile(filename)
	if err != nil {
		return out
	}

	if err := json.Unmarshal(data, &out); err != nil {
		return make(map[string]Result)
	}
	return out
}

// compare formats the speedup of ours over other, along with its significance
func compare(ours, other []float64) string {
	if len(other) == 0 {
		return "new"
	}

	a, b := tinystat.Summarize(ours), tinystat.Summarize(other)
	if b.Mean == 0 {
		return "~ 1.00x"
	}

	speedup := a.Mean / b.Mean
	diff := tinystat.Compare(a, b, 99)
	switch {
	case !diff.Significant():
		return fmt.Sprintf("~ %.2fx (p=%.3f)", speedup, diff.PValue)
	case speedup > 1:
		return fmt.Sprintf("✅ %.2fx (p=%.3f)", speedup, diff.PValue)
	default:
		return fmt.Sprintf("❌ %.2fx (p=%.3f)", speedup, diff.PValue)
	}
}

func dashes(n int) string {
	return strings.Repeat("-", n)
}

// formatTime formats nanoseconds per operation
func formatTime(ns float64) string {
	switch {
	case ns >= 1e6:
		return fmt.Sprintf("%.1fms", ns/1e6)
	case ns >= 1e3:
		return fmt.Sprintf("%.1fµs", ns/1e3)
	default:
		return fmt.Sprintf("%.1fns", ns)
	}
}

// formatOps formats operations per second
func formatOps(ops float64) string {
	switch {
	case ops >= 1e6:
		return fmt.Sprintf("%.1fM", ops/1e6)
	case ops >= 1e3:
		return fmt.Sprintf("%.1fK", ops/1e3)
	default:
		return fmt.Sprintf("%.0f", ops)
	}
}

// formatBytes formats a number of bytes
func formatBytes(n float64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMB", n/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKB", n/(1<<10))
	default:
		return fmt.Sprintf("%.0fB", n)
	}
}
