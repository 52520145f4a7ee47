package detection

import "math"

const (
	// SampleWindowSize is the size of each window taken by SampledEntropy.
	SampleWindowSize = 8192

	// SampleThreshold is the buffer size above which SampledEntropy switches
	// from whole-buffer analysis to head/middle/tail windows. Kept at three
	// windows' worth so sampling never reads more than it would whole.
	SampleThreshold = 3 * SampleWindowSize
)

// Entropy calculates Shannon entropy for byte data in bits per byte.
// Entropy near 8.0 indicates encrypted or compressed data; normal text
// files range from 4.5-5.5. An empty buffer has entropy 0.
func Entropy(data []byte) float64 {
	if len(data) == 0 {
		return 0.0
	}

	frequencies := make([]int, 256)
	for _, b := range data {
		frequencies[b]++
	}

	// H(X) = -Σ(p(xi) * log2(p(xi)))
	entropy := 0.0
	dataLen := float64(len(data))

	for _, freq := range frequencies {
		if freq > 0 {
			probability := float64(freq) / dataLen
			entropy -= probability * math.Log2(probability)
		}
	}

	return entropy
}

// SampledEntropy bounds the cost of entropy analysis on large buffers by
// averaging fixed windows at the head, middle and tail. Buffers at or below
// SampleThreshold are analyzed whole. The window positions depend only on
// the buffer length, so the result is deterministic for a given buffer;
// alert thresholds are tuned against this strategy.
func SampledEntropy(data []byte) float64 {
	if len(data) <= SampleThreshold {
		return Entropy(data)
	}

	offsets := []int{0, len(data)/2 - SampleWindowSize/2, len(data) - SampleWindowSize}

	sum := 0.0
	for _, off := range offsets {
		sum += Entropy(data[off : off+SampleWindowSize])
	}

	return sum / float64(len(offsets))
}
