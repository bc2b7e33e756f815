package main

import (
	"github.com/proyecthub/proyecthub-api/internal/config"
	"github.com/proyecthub/proyecthub-api/pkg/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "proyecthub-admin",
	Short: "Administrative tasks for the ProyectHub API",
	Long: `Administrative tasks for the ProyectHub API. Usage:

	proyecthub-admin migrate up
	proyecthub-admin user create admin@example.com s3cret
`,
	SilenceUsage: true,
}

// loadConfig reads the same environment as the API server
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg.Environment)
	return cfg, nil
}
