package provision

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"vsat-setup/internal/logger"
)

// Downloader fetches a remote file to a local path. The provisioner only
// ever needs this one operation, and keeping it behind an interface lets
// tests substitute a double and operators substitute mirrors without a
// real transfer.
type Downloader interface {
	Fetch(url, destPath string) error
}

// HTTPDownloader downloads over plain HTTP(S) with the default client.
// Transfers block until completion; there is deliberately no timeout or
// retry beyond what net/http itself provides.
type HTTPDownloader struct {
	Client *http.Client
}

// Fetch downloads the content at url and saves it to destPath.
func (d *HTTPDownloader) Fetch(url, destPath string) error {
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to GET %s: %w", url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Error("[ERROR] Failed to close response body: %s\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned HTTP status %d", url, resp.StatusCode)
	}

	// Create or truncate the destination and stream the body into it.
	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			logger.Error("[ERROR] Failed to close destination file: %s\n", cerr)
		}
	}()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write response to file: %w", err)
	}

	logger.Debug("[DEBUG] Downloaded %s to %s\n", url, destPath)
	return nil
}
