package imagehash

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// maxImageBytes caps how much of an image is read when hashing.
const maxImageBytes = 10 << 20 // 10 MB

// MD5Provider hashes the raw bytes of an image URL. It detects exact image
// reuse across marketplaces (the common case for catalog photos) but not
// visually-similar re-encodes; a true perceptual-hash provider slots in
// behind the same interface.
type MD5Provider struct {
	httpClient *http.Client
}

// NewMD5Provider creates a provider with a bounded-timeout HTTP client.
func NewMD5Provider() *MD5Provider {
	return &MD5Provider{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// PHash downloads the image and returns the first 64 bits of its MD5 as a
// 16-character hex string. An unreachable or non-OK image yields an empty
// hash with a nil error, per the provider contract.
func (p *MD5Provider) PHash(ctx context.Context, imageRef string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", imageRef, nil)
	if err != nil {
		return "", nil
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		log.Printf("[IMAGEHASH] Failed to fetch %q: %v", imageRef, err)
		return "", nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[IMAGEHASH] Unexpected status %d for %q", resp.StatusCode, imageRef)
		return "", nil
	}

	hasher := md5.New()
	if _, err := io.Copy(hasher, io.LimitReader(resp.Body, maxImageBytes)); err != nil {
		return "", fmt.Errorf("reading image %q: %w", imageRef, err)
	}

	sum := hex.EncodeToString(hasher.Sum(nil))
	return sum[:hashBits/4], nil
}
