package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/RoaringBitmap/roaring/v2"
	rb "github.com/kelindar/roaring32"
	bench "github.com/kelindar/roaring32/tinybench"
)

var (
	samples  = flag.Int("samples", bench.DefaultSamples, "number of samples per benchmark")
	duration = flag.Duration("duration", bench.DefaultDuration, "duration of each sample")
	filter   = flag.String("filter", "", "only run benchmarks with this name prefix")
	output   = flag.String("out", bench.DefaultFilename, "file to persist the results into")
	verbose  = flag.Bool("v", false, "verbose output")
)

var sizes = []int{1e3, 1e6}

// shape generates a data set of a given size
type shape struct {
	name string
	gen  func(size int) []uint32
}

var shapes = []shape{
	{"seq", dataSeq},
	{"rnd", dataRand},
	{"sps", dataSparse},
	{"dns", dataDense},
}

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	logger.Info("starting benchmarks",
		"samples", *samples,
		"duration", *duration,
		"filter", *filter,
		"out", *output)

	if err := verify(logger); err != nil {
		logger.Error("reference mismatch", "error", err)
		os.Exit(1)
	}

	bench.Run(func(runner *bench.B) {
		runOps(runner)
		runMath(runner)
		runCount(runner)
		runRank(runner)
		runRange(runner)
		runCodec(runner)
	}, bench.WithReference(),
		bench.WithLogger(logger),
		bench.WithFile(*output),
		bench.WithFilter(*filter),
		bench.WithDuration(*duration),
		bench.WithSamples(*samples),
	)
}

// verify checks that both implementations agree on the data sets before timing them
func verify(logger *slog.Logger) error {
	for _, s := range shapes {
		data := s.gen(100_000)
		our, ref := randomBitmaps(data)
		our.Optimize()

		buffer, err := ref.ToBytes()
		if err != nil {
			return err
		}

		decoded, err := rb.FromBytes(buffer)
		if err != nil {
			return fmt.Errorf("%s: decode reference: %w", s.name, err)
		}

		other := roaring.New()
		if err := other.UnmarshalBinary(our.ToBytes()); err != nil {
			return fmt.Errorf("%s: reference decode: %w", s.name, err)
		}

		switch {
		case !decoded.Equals(our):
			return fmt.Errorf("%s: decoded bitmap differs", s.name)
		case !other.Equals(ref):
			return fmt.Errorf("%s: reference bitmap differs", s.name)
		}

		logger.Debug("verified", "shape", s.name, "count", our.Count(), "bytes", our.SizeInBytes())
	}
	return nil
}

func runOps(b *bench.B) {
	operations := []struct {
		name  string
		ourFn func(*rb.Bitmap, uint32)
		refFn func(*roaring.Bitmap, uint32)
	}{
		{"set", func(bm *rb.Bitmap, v uint32) { bm.Set(v) }, (*roaring.Bitmap).Add},
		{"has", func(bm *rb.Bitmap, v uint32) { bm.Contains(v) }, func(bm *roaring.Bitmap, v uint32) { bm.Contains(v) }},
		{"del", func(bm *rb.Bitmap, v uint32) { bm.Remove(v) }, (*roaring.Bitmap).Remove},
	}

	for _, op := range operations {
		for _, size := range sizes {
			for _, s := range shapes {
				data := s.gen(size)
				our, ref := randomBitmaps(data)

				i, j := 0, 0
				b.Run(fmt.Sprintf("%s %s (%s)", op.name, formatSize(size), s.name),
					func() { op.ourFn(our, data[i%len(data)]); i++ },
					func() { op.refFn(ref, data[j%len(data)]); j++ })
			}
		}
	}
}

func runMath(b *bench.B) {
	operations := []struct {
		name  string
		ourFn func(*rb.Bitmap, *rb.Bitmap) *rb.Bitmap
		refFn func(*roaring.Bitmap, *roaring.Bitmap) *roaring.Bitmap
	}{
		{"and", rb.And, roaring.And},
		{"or", rb.Or, roaring.Or},
		{"xor", rb.Xor, roaring.Xor},
		{"andnot", rb.AndNot, roaring.AndNot},
	}

	for _, op := range operations {
		for _, size := range sizes {
			for _, s := range shapes {
				data := s.gen(size)
				our, ref := randomBitmaps(data)
				ourSrc, refSrc := randomBitmaps(data)
				our.Optimize()
				ref.RunOptimize()
				ourSrc.Optimize()
				refSrc.RunOptimize()

				b.Run(fmt.Sprintf("%s %s (%s)", op.name, formatSize(size), s.name),
					func() { op.ourFn(our, ourSrc) },
					func() { op.refFn(ref, refSrc) })
			}
		}
	}
}

func runCount(b *bench.B) {
	for _, size := range sizes {
		for _, s := range shapes {
			data := s.gen(size)
			our, ref := randomBitmaps(data)
			ourSrc, refSrc := randomBitmaps(data)

			b.Run(fmt.Sprintf("andcount %s (%s)", formatSize(size), s.name),
				func() { rb.AndCount(our, ourSrc) },
				func() { ref.AndCardinality(refSrc) })
		}
	}
}

func runRank(b *bench.B) {
	for _, size := range sizes {
		for _, s := range shapes {
			data := s.gen(size)
			our, ref := randomBitmaps(data)
			if our.IsEmpty() {
				continue
			}

			i, j := 0, 0
			count := our.Count()
			b.Run(fmt.Sprintf("rank %s (%s)", formatSize(size), s.name),
				func() { our.Rank(data[i%len(data)]); i++ },
				func() { ref.Rank(data[j%len(data)]); j++ })
			b.Run(fmt.Sprintf("select %s (%s)", formatSize(size), s.name),
				func() { _, _ = our.Select(i % count); i++ },
				func() { _, _ = ref.Select(uint32(j % count)); j++ })
		}
	}
}

func runRange(b *bench.B) {
	for _, size := range sizes {
		for _, s := range shapes {
			data := s.gen(size)
			our, ref := randomBitmaps(data)

			b.Run(fmt.Sprintf("range %s (%s)", formatSize(size), s.name),
				func() { our.Range(func(uint32) {}) },
				func() { ref.Iterate(func(uint32) bool { return true }) })
		}
	}
}

func runCodec(b *bench.B) {
	const size = 100_000
	for _, s := range shapes {
		our, ref := randomBitmaps(s.gen(size))
		our.Optimize()
		ref.RunOptimize()

		b.Run("write "+s.name,
			func() { our.ToBytes() },
			func() { _, _ = ref.ToBytes() })

		b.Size("size "+s.name, our.SizeInBytes(), int(ref.GetSerializedSizeInBytes()))

		encoded := our.ToBytes()
		b.Run("read "+s.name,
			func() { _, _ = rb.FromBytes(encoded) },
			func() { _ = roaring.New().UnmarshalBinary(encoded) })
	}
}

func formatSize(size int) string {
	if size >= 1e6 {
		return fmt.Sprintf("%.0fM", float64(size)/1e6)
	}
	return fmt.Sprintf("%.0fK", float64(size)/1e3)
}

func dataSeq(size int) []uint32 {
	data := make([]uint32, size)
	for i := 0; i < size; i++ {
		data[i] = uint32(i)
	}
	return data
}

func dataRand(size int) []uint32 {
	data := make([]uint32, size)
	for i := 0; i < size; i++ {
		data[i] = uint32(rand.IntN(size))
	}
	return data
}

func dataSparse(size int) []uint32 {
	data := make([]uint32, size)
	for i := 0; i < size; i++ {
		data[i] = uint32(i * 1000)
	}
	return data
}

func dataDense(size int) []uint32 {
	data := make([]uint32, size)
	for i := 0; i < size; i++ {
		data[i] = uint32(rand.IntN(size / 10))
	}
	return data
}

// randomBitmaps creates bitmaps with 50% of the values set
func randomBitmaps(data []uint32) (*rb.Bitmap, *roaring.Bitmap) {
	our := rb.New()
	ref := roaring.New()
	for _, v := range data {
		if rand.IntN(2) == 0 {
			our.Set(v)
			ref.Add(v)
		}
	}
	return our, ref
}
