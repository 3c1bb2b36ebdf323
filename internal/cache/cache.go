// Package cache keeps small JSON documents under the cache directory for a limited time.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/solotube/solotube/filesystem"
	"github.com/solotube/solotube/log"
	"github.com/solotube/solotube/where"
)

// TTL is how long a document stays valid.
const TTL = 7 * 24 * time.Hour

var now = time.Now

func dir() string {
	path := filepath.Join(where.Cache(), "documents")
	_ = filesystem.API().MkdirAll(path, os.ModePerm)
	return path
}

// Key derives a file name from the parts identifying a document.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(hash[:])
}

// Read decodes the document stored under key into target. It reports false when the
// document is missing, expired or unreadable.
func Read(key string, target any) bool {
	path := filepath.Join(dir(), key)

	info, err := filesystem.API().Stat(path)
	if err != nil || now().Sub(info.ModTime()) > TTL {
		return false
	}

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return false
	}

	return json.Unmarshal(data, target) == nil
}

// Write stores data under key, replacing the previous document in one rename.
func Write(key string, data any) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}

	path := filepath.Join(dir(), key)
	tmp := path + ".tmp"

	if err := filesystem.API().WriteFile(tmp, encoded, 0o644); err != nil {
		return err
	}
	return filesystem.API().Rename(tmp, path)
}

// CollectGarbage removes expired documents.
func CollectGarbage() {
	logger := log.For("cache")

	var removed int
	err := filesystem.API().Walk(dir(), func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if now().Sub(info.ModTime()) > TTL {
			if err := filesystem.API().Remove(path); err == nil {
				removed++
			}
		}
		return nil
	})
	if err != nil {
		logger.Warnf("collect garbage: %v", err)
		return
	}

	if removed > 0 {
		logger.Infof("removed %d expired documents", removed)
	}
}
