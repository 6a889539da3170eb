// Package imagehash scores image similarity from perceptual hashes. Hash
// generation itself is an external capability behind the HashProvider
// interface; this package only turns a pair of hashes into a similarity
// score.
package imagehash

import (
	"context"
	"math/bits"
	"strconv"
)

// hashBits is the fixed hash length. Providers return 64-bit hashes as
// 16-character hex strings.
const hashBits = 64

// HashProvider computes the perceptual hash of an image reference. An
// empty hash with a nil error means the image was unreachable or
// undecodable; a non-nil error means the provider itself failed.
type HashProvider interface {
	PHash(ctx context.Context, imageRef string) (string, error)
}

// Adapter wraps a HashProvider into the image-similarity contract used by
// the scoring pipeline. It implements domain.ImageSimilarityScorer.
type Adapter struct {
	provider HashProvider
}

// NewAdapter creates an adapter over the given hash provider.
func NewAdapter(provider HashProvider) *Adapter {
	return &Adapter{provider: provider}
}

// Similarity returns (maxDistance - hamming) / maxDistance for the two
// image references' hashes. Identical hashes score 1.0, maximally different
// hashes 0.0. A missing or unreachable image scores 0.0 rather than
// failing; only a provider error propagates.
func (a *Adapter) Similarity(ctx context.Context, refA, refB string) (float64, error) {
	if refA == "" || refB == "" {
		return 0, nil
	}

	hashA, err := a.provider.PHash(ctx, refA)
	if err != nil {
		return 0, err
	}
	hashB, err := a.provider.PHash(ctx, refB)
	if err != nil {
		return 0, err
	}
	if hashA == "" || hashB == "" {
		return 0, nil
	}

	distance := HammingDistance(hashA, hashB)
	return float64(hashBits-distance) / float64(hashBits), nil
}

// HammingDistance counts differing bits between two hex-encoded hashes.
// Malformed or length-mismatched hashes count as maximally distant.
func HammingDistance(hexA, hexB string) int {
	if len(hexA) != len(hexB) || len(hexA) == 0 {
		return hashBits
	}

	distance := 0
	for i := 0; i < len(hexA); i++ {
		nibbleA, errA := strconv.ParseUint(string(hexA[i]), 16, 8)
		nibbleB, errB := strconv.ParseUint(string(hexB[i]), 16, 8)
		if errA != nil || errB != nil {
			return hashBits
		}
		distance += bits.OnesCount8(uint8(nibbleA ^ nibbleB))
	}

	if distance > hashBits {
		distance = hashBits
	}
	return distance
}
