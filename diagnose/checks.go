package diagnose

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"sclab_app/core"
	"sclab_app/install"
	"sclab_app/launch"
	"sclab_app/notebooks"
)

// Run executes the complete diagnostics sequence and returns the result.
// Failed checks never abort the run; the point of the report is to show
// everything that is wrong at once.
func (s *Suite) Run(ctx context.Context) SuiteResult {
	startTime := time.Now()
	steps := make([]Step, 0, 10)

	if s.showProgress {
		s.printHeader("SCLab-App Environment")
	}

	python := ""
	steps = append(steps, s.runStep("Interpreter", func() CheckResult {
		result, resolved := s.checkInterpreter()
		python = resolved
		return result
	}))

	// The Python stack checks all run through the interpreter, so without
	// one they can only restate the first failure.
	if python == "" {
		reason := "interpreter not found"
		steps = append(steps,
			s.skipStep("Python", reason),
			s.skipStep("JupyterLab", reason),
			s.skipStep("Voila", reason),
			s.skipStep("SCLab package", reason),
		)
	} else {
		steps = append(steps,
			s.runStep("Python", func() CheckResult {
				return s.checkPythonVersion(ctx, python)
			}),
			s.runStep("JupyterLab", func() CheckResult {
				return s.checkModule(ctx, python, "JupyterLab", "jupyterlab")
			}),
			s.runStep("Voila", func() CheckResult {
				return s.checkModule(ctx, python, "Voila", "voila")
			}),
			s.runStep("SCLab package", func() CheckResult {
				return s.checkImport(ctx, python, "sclab")
			}),
		)
	}

	steps = append(steps,
		s.runStep("Notebook directory", func() CheckResult {
			return s.checkNotebookDir()
		}),
		s.runStep("Dashboard notebook", func() CheckResult {
			return s.checkDashboardNotebook()
		}),
		s.runStep("Lab port", func() CheckResult {
			return s.checkPort(s.cfg.LabPort)
		}),
		s.runStep("Dashboard port", func() CheckResult {
			return s.checkPort(s.cfg.DashboardPort)
		}),
		s.runStep("Disk space", func() CheckResult {
			return s.checkDiskSpace()
		}),
	)

	result := s.buildResult(steps, startTime)

	if s.showProgress {
		s.printSummary(result)
	}

	return result
}

// checkInterpreter resolves the bundled interpreter and returns the outcome
// together with the resolved path, empty when resolution failed.
func (s *Suite) checkInterpreter() (CheckResult, string) {
	python, err := core.ResolveInterpreter(s.layout)
	if err != nil {
		return fail("not found", err), ""
	}
	return pass(python), python
}

// checkPythonVersion asks the resolved interpreter for its version string.
func (s *Suite) checkPythonVersion(ctx context.Context, python string) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	version, err := install.QueryVersion(ctx, python)
	if err != nil {
		return fail("version query failed", err)
	}
	return pass(version)
}

// checkModule verifies a Jupyter tool answers `python -m <module> --version`.
func (s *Suite) checkModule(ctx context.Context, python, label, module string) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	version, err := QueryModuleVersion(ctx, python, module)
	if err != nil {
		return fail("not importable", fmt.Errorf("%w (%v)", core.ErrDependencyMissing(label), err))
	}
	return pass(version)
}

// checkImport verifies a Python package imports inside the interpreter.
func (s *Suite) checkImport(ctx context.Context, python, pkg string) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	version, err := QueryImportVersion(ctx, python, pkg)
	if err != nil {
		return fail("not importable", fmt.Errorf("%w (%v)", core.ErrDependencyMissing(pkg), err))
	}
	return pass(version)
}

// checkNotebookDir reports on the user's notebook directory. A missing
// directory is only a warning; every launch command creates it on demand.
func (s *Suite) checkNotebookDir() CheckResult {
	home := s.layout.SCLabHome()

	info, err := os.Stat(home)
	if err != nil {
		if os.IsNotExist(err) {
			return warn(fmt.Sprintf("%s does not exist yet (created on first launch, or run 'sclab-app init')", home))
		}
		return fail("cannot read "+home, err)
	}
	if !info.IsDir() {
		return fail("not a directory", fmt.Errorf("%s exists but is not a directory", home))
	}

	count := len(ListNotebooks(home))
	switch count {
	case 1:
		return pass(fmt.Sprintf("%s (1 notebook)", home))
	default:
		return pass(fmt.Sprintf("%s (%d notebooks)", home, count))
	}
}

// checkDashboardNotebook reports on dashboard.ipynb, marking a user-edited
// copy so a broken dashboard can be told apart from a broken install.
func (s *Suite) checkDashboardNotebook() CheckResult {
	path := s.layout.DashboardNotebook()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return warn("missing (dashboard mode needs it; run 'sclab-app init')")
		}
		return fail("cannot read "+path, err)
	}

	pristine, err := notebooks.IsPristine(path, notebooks.DashboardName)
	if err != nil {
		return pass(path)
	}
	if !pristine {
		return pass(path + " (modified)")
	}
	return pass(path)
}

// checkPort reports whether a configured port is currently free. An occupied
// port is a warning because the launcher scans upward for a free one.
func (s *Suite) checkPort(port int) CheckResult {
	if launch.IsPortFree(s.cfg.Host, port) {
		return pass(fmt.Sprintf("%d free", port))
	}
	return warn(fmt.Sprintf("%d in use (launch picks the next free port)", port))
}

// checkDiskSpace reports free space on the filesystem holding the notebook
// directory.
func (s *Suite) checkDiskSpace() CheckResult {
	info, err := GetDiskSpace(s.layout.SCLabHome())
	if err != nil {
		return fail("could not determine free space", err)
	}

	message := fmt.Sprintf("%s free of %s (%.0f%% used)", info.FreeFormatted, info.TotalFormatted, info.UsedPercent)
	if info.Free < LowSpaceThreshold {
		return warn(message + ", results may not fit")
	}
	return pass(message)
}

// ListNotebooks returns the notebook file names directly under dir, sorted.
// Hidden files and checkpoint directories are excluded. Returns nil when the
// directory cannot be read.
func ListNotebooks(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if filepath.Ext(name) != ".ipynb" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
