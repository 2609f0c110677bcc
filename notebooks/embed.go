package notebooks

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

// templatesFS contains the default notebook set shipped with the
// application:
//   - dashboard.ipynb (the Voila dashboard)
//   - 01_quality_control.ipynb .. 04_annotation.ipynb (the workflow series)
//
//go:embed templates
var templatesFS embed.FS

// templateDir is the embedded directory holding the .ipynb templates.
const templateDir = "templates"

// DashboardName is the notebook the dashboard mode serves.
const DashboardName = "dashboard.ipynb"

// TemplateNames returns the embedded notebook names in sorted order.
// The dashboard sorts after the numbered workflow notebooks, which is also
// the order seeding reports them in.
func TemplateNames() []string {
	entries, err := templatesFS.ReadDir(templateDir)
	if err != nil {
		// The directory is embedded at compile time; this cannot fail at
		// runtime for a correctly built binary.
		panic("notebooks: embedded templates missing: " + err.Error())
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".ipynb") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}

// ReadTemplate returns the raw bytes of one embedded template.
func ReadTemplate(name string) ([]byte, error) {
	data, err := templatesFS.ReadFile(templateDir + "/" + name)
	if err != nil {
		return nil, fmt.Errorf("no embedded notebook template %q: %w", name, err)
	}
	return data, nil
}

// HasTemplate reports whether an embedded template with this name exists.
func HasTemplate(name string) bool {
	_, err := templatesFS.ReadFile(templateDir + "/" + name)
	return err == nil
}
