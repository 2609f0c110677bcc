package notebooks

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// SeedOptions control one materialization pass.
type SeedOptions struct {
	// Force overwrites notebooks that already exist. Without it, seeding is
	// copy-if-absent: a user's edited notebook is never touched.
	Force bool

	// ExtraSourceDir, when non-empty and existing, contributes additional
	// *.ipynb files after the embedded set. The installer points this at
	// <prefix>/share/sclab-app/notebooks so a packaged notebook refresh
	// reaches users without a new binary.
	ExtraSourceDir string
}

// SeedResult reports what one seeding pass did, in template order.
type SeedResult struct {
	// Created lists notebooks written because they were absent
	Created []string

	// Overwritten lists notebooks replaced under Force
	Overwritten []string

	// Skipped lists notebooks left alone because they already exist
	Skipped []string

	// Dirs lists working directories created this pass
	Dirs []string
}

// Total returns the number of notebooks considered.
func (r *SeedResult) Total() int {
	return len(r.Created) + len(r.Overwritten) + len(r.Skipped)
}

// Seed materializes the default notebook set into dir, creating the
// directory and the data/, results/, figures/ working subdirectories as
// needed. Existing notebooks are skipped unless opts.Force is set.
//
// Running Seed twice over the same directory without Force changes nothing.
func Seed(dir string, opts SeedOptions) (*SeedResult, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create notebook directory: %w", err)
	}

	result := &SeedResult{}

	for _, sub := range []string{"data", "results", "figures"} {
		subdir := filepath.Join(dir, sub)
		if _, err := os.Stat(subdir); os.IsNotExist(err) {
			if err := os.MkdirAll(subdir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create %s: %w", subdir, err)
			}
			result.Dirs = append(result.Dirs, sub)
		}
	}

	for _, name := range TemplateNames() {
		data, err := ReadTemplate(name)
		if err != nil {
			return nil, err
		}
		if err := seedOne(dir, name, data, opts.Force, result); err != nil {
			return nil, err
		}
	}

	if opts.ExtraSourceDir != "" {
		if err := seedFromDir(dir, opts.ExtraSourceDir, opts.Force, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// seedOne writes a single notebook according to the copy-if-absent rule.
func seedOne(dir, name string, data []byte, force bool, result *SeedResult) error {
	dest := filepath.Join(dir, name)

	_, err := os.Stat(dest)
	exists := err == nil
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", dest, err)
	}

	if exists && !force {
		result.Skipped = append(result.Skipped, name)
		return nil
	}

	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	if exists {
		result.Overwritten = append(result.Overwritten, name)
	} else {
		result.Created = append(result.Created, name)
	}
	return nil
}

// seedFromDir contributes *.ipynb files from an external source directory.
// A missing directory is a no-op: prefixes built without packaged notebooks
// still seed the embedded set.
func seedFromDir(dir, sourceDir string, force bool, result *SeedResult) error {
	entries, err := os.ReadDir(sourceDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read notebook source dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".ipynb" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		// The embedded copy already handled this name this pass
		if HasTemplate(name) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(sourceDir, name))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		if err := seedOne(dir, name, data, force, result); err != nil {
			return err
		}
	}
	return nil
}

// TemplateChecksum returns the SHA256 hex digest of an embedded template.
// This is a pure function with no side effects.
func TemplateChecksum(name string) (string, error) {
	data, err := ReadTemplate(name)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// IsPristine reports whether the file at path is byte-identical to the
// embedded template of the same name. Diagnostics use this to mark notebooks
// the user has edited.
func IsPristine(path, name string) (bool, error) {
	want, err := TemplateChecksum(name)
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]) == want, nil
}
