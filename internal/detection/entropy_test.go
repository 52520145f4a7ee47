package detection

import (
	"math"
	"math/rand"
	"testing"
)

func TestEntropy_EmptyBuffer(t *testing.T) {
	if got := Entropy(nil); got != 0 {
		t.Errorf("Entropy(nil) = %f, expected 0", got)
	}
	if got := Entropy([]byte{}); got != 0 {
		t.Errorf("Entropy(empty) = %f, expected 0", got)
	}
}

func TestEntropy_SingleRepeatedByte(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = 0x41
	}

	if got := Entropy(data); got != 0 {
		t.Errorf("Entropy(repeated byte) = %f, expected 0", got)
	}
}

func TestEntropy_UniformDistribution(t *testing.T) {
	// Every byte value exactly 16 times: maximal entropy by construction.
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i % 256)
	}

	if got := Entropy(data); math.Abs(got-8.0) > 1e-9 {
		t.Errorf("Entropy(uniform) = %f, expected 8.0", got)
	}
}

func TestEntropy_RandomBuffer(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	data := make([]byte, 65536)
	rng.Read(data)

	got := Entropy(data)
	if math.Abs(got-8.0) > 0.05 {
		t.Errorf("Entropy(random 64KB) = %f, expected ~8.0 within 0.05", got)
	}
}

func TestEntropy_PlainText(t *testing.T) {
	got := Entropy([]byte("hello world"))
	if got <= 0 || got >= 6.0 {
		t.Errorf("Entropy(plain text) = %f, expected low but nonzero", got)
	}
}

func TestEntropy_OrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	data := make([]byte, 4096)
	rng.Read(data)

	before := Entropy(data)

	shuffled := make([]byte, len(data))
	copy(shuffled, data)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	// Same byte multiset, same histogram, same result.
	if after := Entropy(shuffled); after != before {
		t.Errorf("Entropy changed under permutation: %f != %f", after, before)
	}
}

func TestSampledEntropy_SmallBufferMatchesWhole(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	data := make([]byte, SampleThreshold)
	rng.Read(data)

	if SampledEntropy(data) != Entropy(data) {
		t.Error("SampledEntropy should analyze small buffers whole")
	}
}

func TestSampledEntropy_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	data := make([]byte, 256*1024)
	rng.Read(data)

	first := SampledEntropy(data)
	second := SampledEntropy(data)
	if first != second {
		t.Errorf("SampledEntropy not deterministic: %f != %f", first, second)
	}

	if math.Abs(first-8.0) > 0.1 {
		t.Errorf("SampledEntropy(random 256KB) = %f, expected near 8.0", first)
	}
}
