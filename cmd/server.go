package cmd

import (
	"log"

	"github.com/pixelforge/nexus/internal/api"
	"github.com/pixelforge/nexus/internal/config"
	"github.com/pixelforge/nexus/internal/migrations"
	"github.com/pixelforge/nexus/internal/services"
	"github.com/pixelforge/nexus/internal/telemetry"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Nexus API server",
	Run: func(cmd *cobra.Command, args []string) {
		conf := config.ReadConfig()

		shutdownTelemetry := telemetry.NewProvider(conf.OTEL_EXPORTER_OTLP_ENDPOINT)
		defer shutdownTelemetry()

		m, err := migrations.NewMigrator(conf)
		if err != nil {
			log.Fatalln("Unable to create migrator:", err)
		}
		if err := m.Up(0); err != nil {
			log.Fatalln("Unable to run migrations:", err)
		}

		svc := services.NewServices(conf)
		defer svc.Close()

		s := api.New(conf, svc)
		s.Start()
	},
}

// Register the "server" command
func init() {
	rootCmd.AddCommand(serverCmd)
}
