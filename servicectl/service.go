// Package servicectl runs headless server mode under the platform service
// manager (systemd, launchd, or the Windows SCM) via kardianos/service, and
// implements the install/uninstall/start/stop/restart/status commands.
package servicectl

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kardianos/service"
	"go.uber.org/zap"

	"sclab_app/core"
	"sclab_app/launch"
	"sclab_app/logging"
)

// ServiceName is the identifier registered with the service manager.
const ServiceName = "sclab-app-server"

// stopGrace bounds how long Stop waits for the supervised server to exit.
// It must exceed the launcher's own kill grace, otherwise a slow but clean
// shutdown gets reported to the service manager as a failure.
const stopGrace = 30 * time.Second

// Program implements service.Interface, bridging the service manager's
// Start/Stop callbacks onto one supervised server run.
type Program struct {
	cfg    *core.Config
	logger *logging.Logger

	// ctx is the context used to signal shutdown
	ctx context.Context
	// cancel is the function to trigger shutdown
	cancel context.CancelFunc
	// exit is the channel closed when the server run has ended
	exit chan struct{}
}

// NewProgram creates the service program for the given configuration.
func NewProgram(cfg *core.Config, logger *logging.Logger) *Program {
	return &Program{cfg: cfg, logger: logger}
}

// Start is called when the service is started. It begins serving in a
// goroutine because the service manager requires Start to return promptly.
func (p *Program) Start(s service.Service) error {
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.exit = make(chan struct{})

	go p.run()

	return nil
}

// Stop is called when the service is stopped. Cancelling the run context
// interrupts the child server; the launcher treats that as a clean stop.
func (p *Program) Stop(s service.Service) error {
	p.cancel()

	select {
	case <-p.exit:
	case <-time.After(stopGrace):
		return fmt.Errorf("timeout waiting for server to stop")
	}

	return nil
}

// run hosts the supervised server until the context is cancelled.
func (p *Program) run() {
	defer close(p.exit)

	code, err := launch.Run(p.ctx, p.cfg, launch.ModeServer, p.logger)
	if err != nil {
		p.logger.Error("server run under service manager failed",
			zap.Int("exit_code", code), zap.Error(err))
		return
	}
	p.logger.Info("server under service manager stopped", zap.Int("exit_code", code))
}

// ServiceConfig returns the service manager registration, freezing the
// operator's current settings into the service environment so restarts and
// reboots serve with the same prefix, port, and credentials.
func ServiceConfig(cfg *core.Config) *service.Config {
	svc := &service.Config{
		Name:        ServiceName,
		DisplayName: "SCLab-App Server",
		Description: "Headless SCLab-App notebook server for single-cell analysis",
		Arguments:   []string{"service", "run"},
		Option: service.KeyValue{
			"StartType": "automatic",
		},
		EnvVars: map[string]string{
			"SCLAB_APP_HOST": cfg.Host,
			"SCLAB_APP_PORT": strconv.Itoa(cfg.LabPort),
		},
	}

	if cfg.Prefix != "" {
		svc.EnvVars["PREFIX"] = cfg.Prefix
	}
	if cfg.HomeDir != "" {
		svc.EnvVars["SCLAB_APP_HOME"] = cfg.HomeDir
	}
	if cfg.Token != "" {
		svc.EnvVars["SCLAB_APP_TOKEN"] = cfg.Token
	}
	if cfg.HashedPassword != "" {
		svc.EnvVars["SCLAB_APP_HASHED_PASSWORD"] = cfg.HashedPassword
	}

	return svc
}

// newService builds the service handle for the current configuration.
func newService(cfg *core.Config, logger *logging.Logger) (service.Service, error) {
	return service.New(NewProgram(cfg, logger), ServiceConfig(cfg))
}

// Run is the service entry point, invoked by the service manager as
// `sclab-app service run`. Run interactively it blocks until a signal
// arrives, which is handy for trying out the service configuration.
func Run(cfg *core.Config, logger *logging.Logger) error {
	s, err := newService(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	if err := s.Run(); err != nil {
		return fmt.Errorf("service run failed: %w", err)
	}
	return nil
}
