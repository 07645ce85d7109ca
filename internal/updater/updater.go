package updater

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	repoOwner = "Octrafic"
	repoName  = "testgen-cli"
)

// APIBase is the GitHub releases API root, replaceable in tests
var APIBase = "https://api.github.com/repos/" + repoOwner + "/" + repoName

// UpdateInfo holds information about available updates
type UpdateInfo struct {
	CurrentVersion string
	LatestVersion  string
	HTMLURL        string
	IsNewer        bool
}

// CheckLatestVersion checks GitHub for the latest release and compares with current version
func CheckLatestVersion(ctx context.Context, currentVersion string) (*UpdateInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, APIBase+"/releases/latest", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to check for updates: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read release info: %w", err)
	}

	tag := gjson.GetBytes(body, "tag_name")
	if !tag.Exists() {
		return nil, fmt.Errorf("release info has no tag_name")
	}
	latest := strings.TrimPrefix(tag.String(), "v")

	return &UpdateInfo{
		CurrentVersion: currentVersion,
		LatestVersion:  latest,
		HTMLURL:        gjson.GetBytes(body, "html_url").String(),
		IsNewer:        IsNewer(latest, currentVersion),
	}, nil
}

// IsNewer returns true if latest version is newer than current
func IsNewer(latest, current string) bool {
	latestParts := parseVersion(latest)
	currentParts := parseVersion(current)

	for i := 0; i < 3; i++ {
		if latestParts[i] > currentParts[i] {
			return true
		}
		if latestParts[i] < currentParts[i] {
			return false
		}
	}
	return false
}

func parseVersion(v string) [3]int {
	v = strings.TrimPrefix(v, "v")
	// 1.0.0-beta compares as 1.0.0
	if idx := strings.IndexByte(v, '-'); idx != -1 {
		v = v[:idx]
	}
	parts := strings.SplitN(v, ".", 3)
	var result [3]int
	for i := 0; i < 3 && i < len(parts); i++ {
		result[i], _ = strconv.Atoi(parts[i])
	}
	return result
}
