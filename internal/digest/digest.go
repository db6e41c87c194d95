package digest

import (
	_ "crypto/sha256" // registers SHA-256 for go-digest
	"fmt"
	"os"

	godigest "github.com/opencontainers/go-digest"
)

// Algorithm is the only hash validoc speaks.
const Algorithm = godigest.SHA256

// Size is the length of a rendered digest.
const Size = 64

// Sum returns the lowercase hex SHA-256 digest of b.
func Sum(b []byte) string {
	return Algorithm.FromBytes(b).Encoded()
}

// File streams the file at path through SHA-256.
func File(path string) (result string, retErr error) {
	const errCtx = "calculating digest"

	f, err := os.Open(path) //nolint:gosec // path is caller-provided
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("%s: %w", errCtx, closeErr)
		}
	}()

	d, err := Algorithm.FromReader(f)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return d.Encoded(), nil
}

// Validate reports whether hex is a well-formed SHA-256 digest.
func Validate(hex string) error {
	if err := godigest.NewDigestFromEncoded(Algorithm, hex).Validate(); err != nil {
		return fmt.Errorf("validating digest: %w", err)
	}
	return nil
}
