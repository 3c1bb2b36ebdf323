// Package version checks for newer releases of the application.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/metafates/gache"
	"github.com/solotube/solotube/constant"
	"github.com/solotube/solotube/filesystem"
	"github.com/solotube/solotube/network"
	"github.com/solotube/solotube/where"
)

const requestTimeout = 5 * time.Second

var releasesEndpoint = "https://api.github.com/repos/solotube/solotube/releases/latest"

var versionCacher = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "version.json"),
	Lifetime:   time.Hour * 24 * 2,
	FileSystem: &filesystem.GacheFs{},
})

// Latest returns the newest released version, cached for two days.
func Latest() (string, error) {
	cached, expired, err := versionCacher.Get()
	if err != nil {
		return "", err
	}
	if !expired && cached != "" {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releasesEndpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", constant.Solotube+"/"+constant.Version)

	resp, err := network.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release lookup: %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}

	if release.TagName == "" {
		return "", errors.New("empty tag name")
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	_ = versionCacher.Set(latest)
	return latest, nil
}
