package colour

import (
	"cmp"
	"math"
	"slices"
)

// AlphaThreshold is the lowest alpha value a sampled pixel may have to be counted.
const AlphaThreshold = 128

// HistogramExtractor extracts dominant colours by bucketing pixels on a coarse RGB grid.
type HistogramExtractor struct {
	sampleStride int
	bucketStep   int
	topN         int
}

// Extract implements Extractor.
func (e *HistogramExtractor) Extract(buf PixelBuffer) (Palette, error) {
	return ExtractPalette(buf, e.sampleStride, e.bucketStep, e.topN)
}

// bucketKey is the origin of a quantisation cell.
type bucketKey struct {
	r, g, b uint8
}

// colourBucket accumulates the pixels that fell into one quantisation cell.
type colourBucket struct {
	count            int
	sumR, sumG, sumB int
}

func (b *colourBucket) add(r, g, bl uint8) {
	b.count++
	b.sumR += int(r)
	b.sumG += int(g)
	b.sumB += int(bl)
}

func (b *colourBucket) mean() RGB {
	return RGB{
		R: meanChannel(b.sumR, b.count),
		G: meanChannel(b.sumG, b.count),
		B: meanChannel(b.sumB, b.count),
	}
}

func meanChannel(sum, count int) uint8 {
	return uint8(math.Round(float64(sum) / float64(count)))
}

// quantise floors a channel to the origin of its bucket.
func quantise(c uint8, step int) uint8 {
	return uint8(int(c) / step * step)
}

// percentage returns count as a share of total, rounded to two decimals.
func percentage(count, total int) float64 {
	return math.Round(float64(count)/float64(total)*10000) / 100
}

// ExtractPalette returns the topN dominant colours of buf.
//
// Every sampleStride-th pixel is visited, starting at the first. Pixels with
// alpha below AlphaThreshold are skipped. Remaining pixels are grouped by
// flooring each channel to a multiple of bucketStep, and each group reports
// the rounded mean of its members. Entries are ordered by pixel count, with
// ties kept in the order their bucket was first seen.
//
// A buffer with no extent or no accepted pixels yields an empty palette.
// Out-of-range parameters return an error wrapping ErrInvalidParameter.
func ExtractPalette(buf PixelBuffer, sampleStride, bucketStep, topN int) (Palette, error) {
	if err := validateParams(sampleStride, bucketStep, topN); err != nil {
		return Palette{}, err
	}

	all := histogram(buf, sampleStride, bucketStep)
	return all.Truncate(topN), nil
}

// histogram builds the full, untruncated bucket set.
func histogram(buf PixelBuffer, sampleStride, bucketStep int) Palette {
	if !buf.Valid() {
		return Palette{}
	}

	index := make(map[bucketKey]int)
	var buckets []colourBucket
	total := 0

	n := buf.Len()
	for i := 0; i < n; i += sampleStride {
		r, g, b, a := buf.At(i)
		if a < AlphaThreshold {
			continue
		}

		key := bucketKey{quantise(r, bucketStep), quantise(g, bucketStep), quantise(b, bucketStep)}
		idx, ok := index[key]
		if !ok {
			idx = len(buckets)
			index[key] = idx
			buckets = append(buckets, colourBucket{})
		}
		buckets[idx].add(r, g, b)
		total++
	}

	return finalise(buckets, total)
}

// finalise converts accumulated buckets into ranked palette entries.
// Bucket order is the tie-break for equal counts.
func finalise(buckets []colourBucket, total int) Palette {
	if total == 0 {
		return Palette{}
	}

	entries := make([]PaletteEntry, 0, len(buckets))
	for i := range buckets {
		if buckets[i].count == 0 {
			continue
		}
		entries = append(entries, PaletteEntry{
			RGB:        buckets[i].mean(),
			PixelCount: buckets[i].count,
			Percentage: percentage(buckets[i].count, total),
		})
	}

	slices.SortStableFunc(entries, func(a, b PaletteEntry) int {
		return cmp.Compare(b.PixelCount, a.PixelCount)
	})

	return Palette{Entries: entries, SampledPixels: total}
}
