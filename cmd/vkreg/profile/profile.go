// Package profile loads a named FilterOptions value from a TOML file so a
// caller can check a platform/author combination into version control
// instead of repeating flags on every invocation.
package profile

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/googlestadia/vkregistry/registry"
)

// Document is the top-level shape of a filter profile file: a single
// [filter] table mirroring registry.FilterOptions.
type Document struct {
	Filter Filter `toml:"filter"`
}

// Filter mirrors registry.FilterOptions field for field so it can carry
// struct tags without registry needing to know about TOML at all.
type Filter struct {
	Platforms         []string `toml:"platforms"`
	Authors           []string `toml:"authors"`
	Supported         string   `toml:"supported"`
	AllowedExtensions []string `toml:"allow"`
	BlockedExtensions []string `toml:"block"`
}

// Load reads path and returns the equivalent registry.FilterOptions.
func Load(path string) (registry.FilterOptions, error) {
	var doc Document
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return registry.FilterOptions{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return registry.FilterOptions{
		Platforms:         doc.Filter.Platforms,
		Authors:           doc.Filter.Authors,
		Supported:         doc.Filter.Supported,
		AllowedExtensions: doc.Filter.AllowedExtensions,
		BlockedExtensions: doc.Filter.BlockedExtensions,
	}, nil
}

// Exists reports whether path is non-empty and os.Stat succeeds on it, so
// callers can treat a missing --profile flag as "no profile" rather than an
// error. A path that does not exist is likewise reported as false.
func Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
