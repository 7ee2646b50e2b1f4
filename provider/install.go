package provider

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/tansaku/tansaku/filesystem"
	"github.com/tansaku/tansaku/log"
	"github.com/tansaku/tansaku/network"
	"github.com/tansaku/tansaku/where"
)

// Install downloads a Lua script into the sources directory.
// An identical local copy is left untouched and reported as not updated.
func Install(ctx context.Context, rawURL string) (dest string, updated bool, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false, err
	}

	name := path.Base(u.Path)
	if !strings.HasSuffix(name, ".lua") {
		return "", false, fmt.Errorf("%s is not a lua script", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", false, err
	}

	resp, err := network.Client.Do(req)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("download %s: %s", name, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, err
	}

	dest = filepath.Join(where.Sources(), name)
	if local, err := filesystem.API().ReadFile(dest); err == nil && sha256.Sum256(local) == sha256.Sum256(body) {
		return dest, false, nil
	}

	tmp := dest + ".tmp"
	if err = filesystem.API().WriteFile(tmp, body, 0644); err != nil {
		return "", false, err
	}

	if err = filesystem.API().Rename(tmp, dest); err != nil {
		_ = filesystem.API().Remove(tmp)
		return "", false, err
	}

	log.Infof("installed source script %s", name)
	return dest, true, nil
}
