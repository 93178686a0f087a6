package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Version is the running build, overridden with -ldflags "-X ...version.Version=..."
var Version = "0.1.0"

const (
	// ReleasesURL is the latest-release endpoint queried by Check
	ReleasesURL = "https://api.github.com/repos/studiowebux/tally/releases/latest"

	checkTimeout = 5 * time.Second
)

// Release is the subset of the GitHub release payload we read
type Release struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

// Update is the outcome of a release check
type Update struct {
	Current   string
	Latest    string
	URL       string
	Available bool
}

// Checker asks a release endpoint whether a newer build exists
type Checker struct {
	URL    string
	Client *http.Client
}

// NewChecker returns a checker for the public release feed
func NewChecker() *Checker {
	return &Checker{
		URL:    ReleasesURL,
		Client: &http.Client{Timeout: checkTimeout},
	}
}

// Check compares current against the latest published release
func (c *Checker) Check(ctx context.Context, current string) (Update, error) {
	update := Update{Current: strings.TrimPrefix(current, "v")}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return update, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "tally/"+update.Current)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return update, fmt.Errorf("failed to fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return update, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return update, fmt.Errorf("failed to decode response: %w", err)
	}

	update.Latest = strings.TrimPrefix(release.TagName, "v")
	update.URL = release.HTMLURL
	update.Available = update.Latest != "" && compare(update.Latest, update.Current) > 0
	return update, nil
}

// compare orders two dotted versions numerically, ignoring pre-release
// and build suffixes. Missing parts count as zero.
func compare(a, b string) int {
	pa, pb := parseVersion(a), parseVersion(b)
	for len(pa) < len(pb) {
		pa = append(pa, 0)
	}
	for len(pb) < len(pa) {
		pb = append(pb, 0)
	}

	for i := range pa {
		switch {
		case pa[i] > pb[i]:
			return 1
		case pa[i] < pb[i]:
			return -1
		}
	}
	return 0
}

// parseVersion splits "1.2.3-dev" into [1 2 3]; unparsable parts are skipped
func parseVersion(version string) []int {
	if idx := strings.IndexAny(version, "-+"); idx != -1 {
		version = version[:idx]
	}

	parts := strings.Split(version, ".")
	result := make([]int, 0, len(parts))
	for _, part := range parts {
		num, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		result = append(result, num)
	}
	return result
}
