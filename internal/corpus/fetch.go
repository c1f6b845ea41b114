package corpus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// DefaultCSVURL is the upstream location of the publications corpus.
const DefaultCSVURL = "https://raw.githubusercontent.com/jgalazka/SB_publications/main/SB_publication_PMC.csv"

// Fetch downloads the corpus CSV to outPath, creating parent directories as
// needed. It returns the number of bytes written.
func Fetch(ctx context.Context, url, outPath string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching corpus: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetching corpus: unexpected status %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return 0, fmt.Errorf("creating data dir: %w", err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		return n, fmt.Errorf("writing %s: %w", outPath, err)
	}
	return n, nil
}
