package export

import (
	"fmt"
	"os"

	"github.com/zeebo/xxh3"
)

// Digest hashes the written output file with xxh3. The pipeline logs it at
// the end of a run so operators can confirm that re-running with unchanged
// inputs and configuration produced an identical file.
func Digest(path string) (uint64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("digest %s: %w", path, err)
	}
	return xxh3.Hash(b), nil
}
