package notebooks

import (
	"reflect"
	"sort"
	"testing"
)

func TestTemplateNames(t *testing.T) {
	names := TemplateNames()

	want := []string{
		"01_quality_control.ipynb",
		"02_preprocessing.ipynb",
		"03_clustering.ipynb",
		"04_annotation.ipynb",
		"dashboard.ipynb",
	}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("TemplateNames() = %v, want %v", names, want)
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("TemplateNames() not sorted: %v", names)
	}
}

func TestReadTemplate(t *testing.T) {
	for _, name := range TemplateNames() {
		t.Run(name, func(t *testing.T) {
			data, err := ReadTemplate(name)
			if err != nil {
				t.Fatalf("ReadTemplate(%q) failed: %v", name, err)
			}
			if len(data) == 0 {
				t.Fatalf("ReadTemplate(%q) returned empty data", name)
			}

			nb, err := Parse(data)
			if err != nil {
				t.Fatalf("template %q does not parse: %v", name, err)
			}
			if err := nb.Validate(); err != nil {
				t.Errorf("template %q is not a valid notebook: %v", name, err)
			}
			if nb.Metadata.Kernelspec.Name != "python3" {
				t.Errorf("template %q kernelspec = %q, want %q", name, nb.Metadata.Kernelspec.Name, "python3")
			}
		})
	}
}

func TestReadTemplate_Unknown(t *testing.T) {
	if _, err := ReadTemplate("99_missing.ipynb"); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestHasTemplate(t *testing.T) {
	if !HasTemplate(DashboardName) {
		t.Errorf("HasTemplate(%q) = false, want true", DashboardName)
	}
	if HasTemplate("99_missing.ipynb") {
		t.Error("HasTemplate for unknown name = true, want false")
	}
}

func TestDashboardTemplate_ImportsSCLab(t *testing.T) {
	data, err := ReadTemplate(DashboardName)
	if err != nil {
		t.Fatalf("ReadTemplate failed: %v", err)
	}
	nb, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	found := false
	for _, cell := range nb.Cells {
		if cell.CellType != CellTypeCode {
			continue
		}
		for _, line := range cell.Source {
			if line == "import sclab\n" {
				found = true
			}
		}
	}
	if !found {
		t.Error("dashboard template should import sclab in a code cell")
	}
}
