package remote

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/michaelayoade/dotmac-insights/internal/filter"
)

// Export formats accepted by the remote API.
var exportFormats = map[string]bool{
	"csv":  true,
	"xlsx": true,
	"pdf":  true,
}

// BuildExportURL constructs the download URL for exporting a filtered list.
// Exports bypass the data cache entirely: the caller redirects the client to
// the returned URL and the remote API streams the file.
func BuildExportURL(baseURL, resource string, state filter.State, format string) (string, error) {
	if !exportFormats[format] {
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
	if strings.Contains(resource, ".") {
		return "", fmt.Errorf("derived view %s cannot be exported", resource)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	query := url.Values{}
	query.Set("format", format)
	if state.Search != "" {
		query.Set("search", state.Search)
	}
	if state.SortBy != "" {
		query.Set("sort_by", state.SortBy)
		query.Set("sort_order", state.SortOrder)
	}
	for name, value := range state.Fields {
		if value != "" {
			query.Set(name, value)
		}
	}

	exportURL := *base
	exportURL.Path = strings.TrimRight(base.Path, "/") + "/" + resource + "/export"
	exportURL.RawQuery = query.Encode()
	return exportURL.String(), nil
}
