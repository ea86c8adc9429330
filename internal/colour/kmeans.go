package colour

import (
	"math"
	"math/rand/v2"
)

// KMeansMaxSamples caps the pixels clustered per image. The sample stride is
// widened as needed to stay under it.
const KMeansMaxSamples = 5000

// KMeansExtractor implements colour extraction using k-means clustering.
// Output follows the same contract as ExtractPalette: one entry per
// non-empty cluster, ranked by member count.
type KMeansExtractor struct {
	sampleStride  int
	topN          int
	seed          uint64
	maxIterations int
	convergence   float64
	maxSamples    int
}

// NewKMeansExtractor creates a new KMeansExtractor with default settings.
// The same seed always yields the same palette for the same buffer.
func NewKMeansExtractor(sampleStride, topN int, seed uint64) *KMeansExtractor {
	return &KMeansExtractor{
		sampleStride:  sampleStride,
		topN:          topN,
		seed:          seed,
		maxIterations: 20,
		convergence:   2.0,
		maxSamples:    KMeansMaxSamples,
	}
}

// Extract extracts colours from a buffer using k-means clustering.
func (e *KMeansExtractor) Extract(buf PixelBuffer) (Palette, error) {
	if err := validateParams(e.sampleStride, 1, e.topN); err != nil {
		return Palette{}, err
	}

	samples := e.samplePixels(buf)
	if len(samples) == 0 || e.topN == 0 {
		return Palette{}, nil
	}

	// Fewer distinct colours than clusters: every colour is its own cluster.
	unique := make(map[RGB]int)
	var distinct []RGB
	for _, s := range samples {
		if _, ok := unique[s]; !ok {
			unique[s] = len(distinct)
			distinct = append(distinct, s)
		}
	}
	if len(distinct) <= e.topN {
		buckets := make([]colourBucket, len(distinct))
		for _, s := range samples {
			buckets[unique[s]].add(s.R, s.G, s.B)
		}
		return finalise(buckets, len(samples)), nil
	}

	assignments := e.kmeans(samples, e.topN)

	buckets := make([]colourBucket, e.topN)
	for i, s := range samples {
		buckets[assignments[i]].add(s.R, s.G, s.B)
	}
	return finalise(buckets, len(samples)), nil
}

// point3D represents a point in 3D RGB colour space.
type point3D struct {
	R, G, B float64
}

func pointOf(rgb RGB) point3D {
	return point3D{R: float64(rgb.R), G: float64(rgb.G), B: float64(rgb.B)}
}

// distance calculates the Euclidean distance between two points in RGB space.
func (p point3D) distance(other point3D) float64 {
	dr := p.R - other.R
	dg := p.G - other.G
	db := p.B - other.B
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// samplePixels collects alpha-accepted pixels at the configured stride.
// The stride is widened when needed so that at most maxSamples are kept.
func (e *KMeansExtractor) samplePixels(buf PixelBuffer) []RGB {
	if !buf.Valid() {
		return nil
	}

	n := buf.Len()
	stride := e.sampleStride
	if e.maxSamples > 0 && n/stride > e.maxSamples {
		stride = (n + e.maxSamples - 1) / e.maxSamples
	}

	pixels := make([]RGB, 0, min(n/stride+1, e.maxSamples))
	for i := 0; i < n; i += stride {
		r, g, b, a := buf.At(i)
		if a < AlphaThreshold {
			continue
		}
		pixels = append(pixels, RGB{R: r, G: g, B: b})
	}
	return pixels
}

// kmeans clusters the samples and returns the cluster index of each.
func (e *KMeansExtractor) kmeans(samples []RGB, k int) []int {
	rng := rand.New(rand.NewPCG(e.seed, e.seed^0x9e3779b97f4a7c15))

	points := make([]point3D, len(samples))
	for i, s := range samples {
		points[i] = pointOf(s)
	}

	centroids := initializeCentroidsKMeansPlusPlus(rng, points, k)
	assignments := make([]int, len(points))

	for range e.maxIterations {
		changed := 0
		for i, point := range points {
			nearest := findNearestCentroid(point, centroids)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed++
			}
		}

		// Fewer than 1% of points moved.
		if float64(changed)/float64(len(points)) < 0.01 {
			break
		}

		newCentroids := recalculateCentroids(rng, points, assignments, k)

		totalMovement := 0.0
		for i := range centroids {
			totalMovement += centroids[i].distance(newCentroids[i])
		}
		centroids = newCentroids

		if totalMovement/float64(k) < e.convergence {
			break
		}
	}

	// Final assignment against the last centroids.
	for i, point := range points {
		assignments[i] = findNearestCentroid(point, centroids)
	}

	return assignments
}

// initializeCentroidsKMeansPlusPlus picks k starting centroids with k-means++ seeding.
func initializeCentroidsKMeansPlusPlus(rng *rand.Rand, points []point3D, k int) []point3D {
	if len(points) == 0 || k == 0 {
		return []point3D{}
	}

	centroids := make([]point3D, 0, k)
	centroids = append(centroids, points[rng.IntN(len(points))])

	distances := make([]float64, len(points))
	for len(centroids) < k {
		totalDistance := 0.0
		for i, point := range points {
			minDist := math.MaxFloat64
			for _, centroid := range centroids {
				minDist = min(minDist, point.distance(centroid))
			}
			distances[i] = minDist * minDist
			totalDistance += distances[i]
		}

		if totalDistance == 0 {
			last := centroids[len(centroids)-1]
			centroids = append(centroids, point3D{R: last.R + 0.1, G: last.G + 0.1, B: last.B + 0.1})
			continue
		}

		target := rng.Float64() * totalDistance
		cumulative := 0.0
		chosen := len(points) - 1
		for i, dist := range distances {
			cumulative += dist
			if cumulative >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, points[chosen])
	}

	return centroids
}

// findNearestCentroid finds the index of the nearest centroid to a point.
func findNearestCentroid(point point3D, centroids []point3D) int {
	minDist := math.MaxFloat64
	nearest := 0
	for i, centroid := range centroids {
		if dist := point.distance(centroid); dist < minDist {
			minDist = dist
			nearest = i
		}
	}
	return nearest
}

// recalculateCentroids moves each centroid to the mean of its assigned points.
// Empty clusters are reseeded from a random point.
func recalculateCentroids(rng *rand.Rand, points []point3D, assignments []int, k int) []point3D {
	sums := make([]point3D, k)
	counts := make([]int, k)

	for i, point := range points {
		cluster := assignments[i]
		sums[cluster].R += point.R
		sums[cluster].G += point.G
		sums[cluster].B += point.B
		counts[cluster]++
	}

	centroids := make([]point3D, k)
	for i := range k {
		if counts[i] > 0 {
			n := float64(counts[i])
			centroids[i] = point3D{R: sums[i].R / n, G: sums[i].G / n, B: sums[i].B / n}
		} else {
			centroids[i] = points[rng.IntN(len(points))]
		}
	}

	return centroids
}
