// Package ioutil reads the site list input file, adapted from the
// teacher's internal/io/file_reader.go (ReadPublishers) to also strip a
// UTF-8 BOM and coerce bare hostnames to URLs, per spec.md §3's input
// format.
package ioutil

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/ashish-patro/logo-grouper/internal/urlutil"
)

const utf8BOM = "\xEF\xBB\xBF"

// ReadSites reads one site per line from path, skipping blank lines and
// tolerating a leading UTF-8 BOM, coercing bare hostnames to https:// URLs
// via urlutil.CoerceScheme.
func ReadSites(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening site list: %w", err)
	}
	defer file.Close()

	var sites []string
	scanner := bufio.NewScanner(file)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, utf8BOM)
			first = false
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sites = append(sites, urlutil.CoerceScheme(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading site list: %w", err)
	}
	return sites, nil
}
