package install

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"sclab_app/core"
)

// resourceQueryScript prints the on-disk location of a subtree bundled
// inside an installed Python package, or nothing if the package is absent.
const resourceQueryScript = `
import sys
try:
    import importlib.resources as resources
    path = resources.files(sys.argv[1]).joinpath(sys.argv[2])
    print(path)
except Exception:
    pass
`

// QueryPackageResourceDir asks the interpreter where an installed package
// keeps a bundled resource subtree. Returns "" when the package or subtree
// does not exist.
func QueryPackageResourceDir(ctx context.Context, python, pkg, subtree string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionQueryTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, python, "-c", resourceQueryScript, pkg, subtree)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("resource query failed: %w", err)
	}

	path := strings.TrimSpace(stdout.String())
	if path == "" {
		return "", nil
	}
	if _, err := os.Stat(path); err != nil {
		return "", nil
	}
	return path, nil
}

// CopyPackagedAssets copies the installed application package's bundled
// assets into <prefix>/share/sclab-app/assets. A prefix built without the
// wheel has no assets to copy; that is a no-op, not an error.
func CopyPackagedAssets(ctx context.Context, python string, layout core.Layout) (string, error) {
	source, err := QueryPackageResourceDir(ctx, python, "sclab_app", "resources/assets")
	if err != nil {
		return "", err
	}
	if source == "" {
		return "", nil
	}

	target := filepath.Join(layout.ShareDir(), "assets")
	if err := CopyTree(source, target); err != nil {
		return "", err
	}
	return target, nil
}

// CopyTree copies the src directory tree into dst, creating directories and
// overwriting files that already exist.
func CopyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
