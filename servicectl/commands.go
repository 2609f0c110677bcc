package servicectl

import (
	"fmt"

	"github.com/kardianos/service"

	"sclab_app/core"
	"sclab_app/launch"
	"sclab_app/logging"
)

// Install registers the server with the service manager. When the
// configuration carries neither a token nor a password, a fresh access token
// is generated, frozen into the service environment, and printed exactly
// once; it cannot be recovered later short of reinstalling the service.
func Install(cfg *core.Config, logger *logging.Logger) error {
	token := ""
	if cfg.Token == "" && cfg.HashedPassword == "" {
		generated, err := core.GenerateServerToken()
		if err != nil {
			return err
		}
		token = generated
		cfg.Token = token
	}

	s, err := newService(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	if err := s.Install(); err != nil {
		return fmt.Errorf("failed to install service: %w", err)
	}

	fmt.Println("Service installed successfully")
	if token != "" {
		url := launch.ModeServer.URL(launch.Options{Host: cfg.Host, Port: cfg.LabPort})
		fmt.Printf("Access token (shown once): %s\n", token)
		fmt.Printf("URL: %s?token=%s\n", url, token)
	}
	return nil
}

// Uninstall removes the service registration.
func Uninstall(cfg *core.Config, logger *logging.Logger) error {
	s, err := newService(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	if err := s.Uninstall(); err != nil {
		return fmt.Errorf("failed to uninstall service: %w", err)
	}

	fmt.Println("Service uninstalled successfully")
	return nil
}

// Start starts the installed service.
func Start(cfg *core.Config, logger *logging.Logger) error {
	s, err := newService(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	if err := s.Start(); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}

	fmt.Println("Service started successfully")
	return nil
}

// Stop stops the installed service.
func Stop(cfg *core.Config, logger *logging.Logger) error {
	s, err := newService(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	if err := s.Stop(); err != nil {
		return fmt.Errorf("failed to stop service: %w", err)
	}

	fmt.Println("Service stopped successfully")
	return nil
}

// Restart stops and then starts the installed service.
func Restart(cfg *core.Config, logger *logging.Logger) error {
	s, err := newService(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	if err := s.Restart(); err != nil {
		return fmt.Errorf("failed to restart service: %w", err)
	}

	fmt.Println("Service restarted successfully")
	return nil
}

// Status returns the current status of the installed service.
func Status(cfg *core.Config, logger *logging.Logger) (service.Status, error) {
	s, err := newService(cfg, logger)
	if err != nil {
		return service.StatusUnknown, fmt.Errorf("failed to create service: %w", err)
	}

	status, err := s.Status()
	if err != nil {
		return service.StatusUnknown, fmt.Errorf("failed to get service status: %w", err)
	}
	return status, nil
}

// StatusString renders a service status for display.
func StatusString(status service.Status) string {
	switch status {
	case service.StatusRunning:
		return "running"
	case service.StatusStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
