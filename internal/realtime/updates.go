package realtime

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const appUpdateNode = "app_update"

// versionPattern accepts dotted numeric versions with an optional
// pre-release suffix: 1.0.0, 2.1, 1.2.3-beta.
var versionPattern = regexp.MustCompile(`^\d+(\.\d+)*(-\w+)?$`)

// AppUpdate is the single published update record every client device
// checks at startup. There is only one; publishing replaces it.
type AppUpdate struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Version      string `json:"version"`
	DownloadLink string `json:"downloadLink"`
	Timestamp    string `json:"timestamp"`
	Active       bool   `json:"active"`
}

// NewAppUpdate validates the fields and assembles the record.
func NewAppUpdate(title, description, version, downloadLink string) (*AppUpdate, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	version = strings.TrimSpace(version)
	downloadLink = strings.TrimSpace(downloadLink)

	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if description == "" {
		return nil, fmt.Errorf("description is required")
	}
	if version == "" {
		return nil, fmt.Errorf("version is required")
	}
	if downloadLink == "" {
		return nil, fmt.Errorf("download link is required")
	}
	if _, err := url.ParseRequestURI(downloadLink); err != nil {
		return nil, fmt.Errorf("download link is not valid")
	}
	if !versionPattern.MatchString(version) {
		return nil, fmt.Errorf("version format is not valid (example: 1.2.0)")
	}

	return &AppUpdate{
		Title:        title,
		Description:  description,
		Version:      version,
		DownloadLink: downloadLink,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Active:       true,
	}, nil
}

// PublishUpdate replaces the published update record.
func (c *Client) PublishUpdate(ctx context.Context, u *AppUpdate) error {
	if err := c.Set(ctx, appUpdateNode, u); err != nil {
		return err
	}
	c.logger.Infof("published update %s", u.Version)
	return nil
}

// CurrentUpdate reads the published update, nil when none is set.
func (c *Client) CurrentUpdate(ctx context.Context) (*AppUpdate, error) {
	var u AppUpdate
	if err := c.Get(ctx, appUpdateNode, &u); err != nil {
		return nil, err
	}
	if u.Version == "" {
		return nil, nil
	}
	return &u, nil
}
