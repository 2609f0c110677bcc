package core

import (
	"os"
	"sort"
)

// ResolveInterpreter locates the Python interpreter installed under the
// prefix, probing the layout's candidate paths in order. A missing
// interpreter means the environment never materialized; the returned error
// carries the probed candidates for the log.
func ResolveInterpreter(layout Layout) (string, error) {
	candidates := layout.InterpreterCandidates()
	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		return candidate, nil
	}
	return "", ErrInterpreterMissing(layout.Prefix, candidates)
}

// ListBinDir returns the sorted entry names of the prefix binary directory,
// for the diagnostic listing emitted when interpreter resolution fails.
// A missing or unreadable directory yields an empty list.
func ListBinDir(layout Layout) []string {
	entries, err := os.ReadDir(layout.BinDir())
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}
