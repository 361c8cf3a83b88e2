// Package fetch retrieves upstream source files for a tagged release.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultURLTemplate points at web-ext's argument-parser setup file.
const DefaultURLTemplate = "https://raw.githubusercontent.com/mozilla/web-ext/refs/tags/{version}/src/program.js"

// VersionPlaceholder is replaced with the requested version in a URL template.
const VersionPlaceholder = "{version}"

// RetrievalError reports that the remote source could not be retrieved.
type RetrievalError struct {
	URL        string
	StatusCode int
	Status     string
	Err        error
}

// Error implements the error interface.
func (e *RetrievalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("failed to fetch %s: %s", e.URL, e.Status)
}

// Unwrap returns the underlying transport error, if any.
func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// Retriever downloads the source text behind a version-tagged URL.
type Retriever struct {
	URLTemplate string
	Client      *http.Client
}

// NewRetriever creates a Retriever for the given URL template. An empty
// template selects DefaultURLTemplate.
func NewRetriever(urlTemplate string) *Retriever {
	if urlTemplate == "" {
		urlTemplate = DefaultURLTemplate
	}
	return &Retriever{
		URLTemplate: urlTemplate,
		Client:      &http.Client{Timeout: 30 * time.Second},
	}
}

// URL returns the location of the source file for version.
func (r *Retriever) URL(version string) string {
	return strings.ReplaceAll(r.URLTemplate, VersionPlaceholder, version)
}

// Fetch returns the full text of the file at the given version tag.
func (r *Retriever) Fetch(ctx context.Context, version string) (string, error) {
	url := r.URL(version)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &RetrievalError{URL: url, Err: err}
	}

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", &RetrievalError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &RetrievalError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &RetrievalError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status, Err: err}
	}
	return string(body), nil
}
