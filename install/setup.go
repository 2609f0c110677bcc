package install

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"sclab_app/core"
	"sclab_app/installer"
	"sclab_app/logging"
	"sclab_app/notebooks"
)

// DefaultPipExtras are the pip-only packages layered on top of the conda
// environment when no staged installer descriptor overrides them. They track
// the descriptor's post_install_pip list.
var DefaultPipExtras = []string{
	"scikit-misc>=0.5.1",
	"scrublet>=0.2.3",
	"typer>=0.9.0",
	"pyranges>=0.1.4",
}

// SetupResult reports what one setup run produced.
type SetupResult struct {
	Interpreter string
	Icons       []string
	Shortcuts   []string
	Wheel       string
	PipPackages []string
	NotebookDir string
	ReceiptPath string
}

// Setup is the post-install hook: resolve the interpreter, install the
// bundled wheel and pip extras, generate icons, create shortcuts, seed the
// user notebooks, and write the receipt.
//
// A missing interpreter is fatal before any other step runs. Python package
// installation is best-effort (a blocked PyPI must not brick the installer);
// icon, shortcut, and notebook failures propagate.
func Setup(ctx context.Context, layout core.Layout, logger *logging.Logger) (*SetupResult, error) {
	if layout.Prefix == "" {
		return nil, core.ErrPrefixMissing()
	}

	logger.Info("setting up",
		zap.String("app", core.AppName),
		zap.String("version", core.GetVersion()),
		zap.String("prefix", layout.Prefix),
		zap.String("platform", layout.GOOS),
	)

	result := &SetupResult{}

	timer := logging.NewStepTimer(logger, "resolve_interpreter")
	python, err := core.ResolveInterpreter(layout)
	if err != nil {
		logger.Error("interpreter not found under prefix",
			zap.String("bin_dir", layout.BinDir()),
			zap.Strings("bin_dir_contents", core.ListBinDir(layout)),
			zap.Strings("candidates", layout.InterpreterCandidates()),
		)
		timer.Fail(err)
		return nil, err
	}
	result.Interpreter = python
	if version, err := QueryVersion(ctx, python); err != nil {
		logger.Warn("interpreter version query failed", zap.Error(err))
	} else {
		logger.Info("interpreter resolved", zap.String("python", python), zap.String("version", version))
	}
	if platform, err := QueryPlatform(ctx, python); err == nil && platform != "" {
		logger.Info("interpreter platform", zap.String("platform", platform))
	}
	timer.Complete(zap.String("python", python))

	result.Wheel, result.PipPackages = installPythonPackages(ctx, python, layout, logger)

	timer = logging.NewStepTimer(logger, "copy_assets")
	if target, err := CopyPackagedAssets(ctx, python, layout); err != nil {
		logger.Warn("packaged asset copy failed", zap.Error(err))
		timer.Skip("asset copy failed")
	} else if target == "" {
		timer.Skip("no packaged assets")
	} else {
		timer.Complete(zap.String("target", target))
	}

	timer = logging.NewStepTimer(logger, "generate_icons")
	icons, err := GenerateIcons(layout.LogoPath(), layout.MenuDir(), layout.GOOS)
	if err != nil {
		timer.Fail(err)
		return nil, err
	}
	result.Icons = icons
	timer.Complete(zap.Int("files", len(icons)))

	timer = logging.NewStepTimer(logger, "create_shortcuts")
	menu, err := installer.LoadMenuDescriptor(layout.MenuDescriptorPath())
	if err != nil {
		timer.Fail(err)
		return nil, err
	}
	if err := menu.Validate(); err != nil {
		timer.Fail(err)
		return nil, core.ErrDescriptorInvalid(layout.MenuDescriptorPath(), err.Error())
	}
	shortcuts, err := CreateShortcuts(layout, menu)
	if err != nil {
		timer.Fail(err)
		return nil, err
	}
	result.Shortcuts = shortcuts
	for _, path := range shortcuts {
		logger.Info("created shortcut", zap.String("path", path))
	}
	timer.Complete(zap.Int("shortcuts", len(shortcuts)))

	timer = logging.NewStepTimer(logger, "seed_notebooks")
	notebookDir, err := layout.EnsureSCLabHome()
	if err != nil {
		timer.Fail(err)
		return nil, err
	}
	seeded, err := notebooks.Seed(notebookDir, notebooks.SeedOptions{
		ExtraSourceDir: layout.NotebookSourceDir(),
	})
	if err != nil {
		timer.Fail(err)
		return nil, err
	}
	result.NotebookDir = notebookDir
	timer.Complete(
		zap.String("dir", notebookDir),
		zap.Strings("created", seeded.Created),
		zap.Strings("skipped", seeded.Skipped),
	)

	receipt := &Receipt{
		AppVersion:  core.GetVersion(),
		Platform:    layout.GOOS,
		InstalledAt: time.Now().UTC(),
		Interpreter: python,
		Shortcuts:   shortcuts,
		Icons:       icons,
		Wheel:       result.Wheel,
		PipPackages: result.PipPackages,
	}
	if err := WriteReceipt(layout.ReceiptPath(), receipt); err != nil {
		return nil, err
	}
	result.ReceiptPath = layout.ReceiptPath()

	logger.Info("setup complete",
		zap.String("notebook_dir", notebookDir),
		zap.String("receipt", result.ReceiptPath),
	)
	return result, nil
}

// installPythonPackages installs the bundled wheel (when present) and the
// pip extras, warning instead of failing: the rest of setup is still worth
// running on a machine that cannot reach PyPI.
func installPythonPackages(ctx context.Context, python string, layout core.Layout, logger *logging.Logger) (wheel string, packages []string) {
	timer := logging.NewStepTimer(logger, "install_python_packages")

	if path, ok := FindWheel(layout); ok {
		logger.Info("installing bundled wheel", zap.String("wheel", path))
		if err := PipInstall(ctx, python, logger, path); err != nil {
			logger.Warn("bundled wheel install failed", zap.String("wheel", path), zap.Error(err))
		} else {
			wheel = path
		}
	} else {
		logger.Info("no bundled wheel found, installing pip extras only",
			zap.Strings("searched", layout.WheelSearchDirs()))
	}

	packages = pipExtras(layout, logger)
	if len(packages) > 0 {
		logger.Info("installing pip extras", zap.Strings("packages", packages))
		if err := PipInstall(ctx, python, logger, packages...); err != nil {
			logger.Warn("pip extras install failed", zap.Error(err))
			packages = nil
		}
	}

	timer.Complete(zap.Bool("wheel_installed", wheel != ""), zap.Int("extras", len(packages)))
	return wheel, packages
}

// pipExtras returns the pip package list from the staged installer
// descriptor, falling back to the compiled-in defaults when the prefix does
// not carry one.
func pipExtras(layout core.Layout, logger *logging.Logger) []string {
	path := layout.ConstructorConfigPath()
	if _, err := os.Stat(path); err != nil {
		return DefaultPipExtras
	}
	cfg, err := installer.LoadConstructorConfig(path)
	if err != nil {
		logger.Warn("staged installer descriptor unreadable, using default pip extras",
			zap.String("path", path), zap.Error(err))
		return DefaultPipExtras
	}
	return cfg.PostInstallPip
}
