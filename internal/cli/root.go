package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shaiso/Cloudlet/internal/config"
	"github.com/shaiso/Cloudlet/internal/invoke"
	"github.com/shaiso/Cloudlet/internal/mq"
	"github.com/shaiso/Cloudlet/internal/telemetry"
	"github.com/shaiso/Cloudlet/internal/transport"
)

// NewRootCmd создаёт корневую команду cloudlet со всеми сервисами.
func NewRootCmd(version string) (*cobra.Command, error) {
	var (
		overrides  config.Overrides
		jsonOutput bool
		debug      bool
		settings   *config.Settings
		logger     = slog.Default()
	)

	root := &cobra.Command{
		Use:           "cloudlet",
		Short:         "Cloudlet CLI — command line access to cloud services",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = telemetry.NewCommandLogger(debug)

			s, err := config.Load(overrides)
			if err != nil {
				return err
			}
			settings = s
			logger.Debug("settings resolved",
				"profile", s.Profile,
				"region", s.Region,
				"transport", s.Transport,
			)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&overrides.Profile, "profile", "", "Configuration profile")
	pf.StringVar(&overrides.Endpoint, "endpoint", "", "Service endpoint URL")
	pf.StringVar(&overrides.Region, "region", "", "Region")
	pf.StringVar(&overrides.Transport, "transport", "", "Transport: http or amqp")
	pf.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	pf.BoolVar(&debug, "debug", false, "Enable debug logging")

	env := &Env{
		Settings: func() *config.Settings { return settings },
		Logger:   func() *slog.Logger { return logger },
		Output: func() *Output {
			return NewOutput(jsonOutput || (settings != nil && settings.Output == config.OutputJSON))
		},
		Confirmer: func() invoke.Confirmer { return NewTerminalConfirmer(logger) },
		Backend: func(ctx context.Context) (invoke.Backend, func(), error) {
			return dialBackend(ctx, settings, logger)
		},
	}

	if err := AddCommands(root, env, Commands()); err != nil {
		return nil, err
	}
	root.AddCommand(NewServicesCmd(env.Output))
	return root, nil
}

// dialBackend создаёт клиент выбранного транспорта. Возвращаемая функция
// освобождает соединение.
func dialBackend(ctx context.Context, s *config.Settings, logger *slog.Logger) (invoke.Backend, func(), error) {
	if s.Transport != config.TransportAMQP {
		client := transport.NewHTTPClient(transport.HTTPConfig{
			Endpoint: s.Endpoint,
			Region:   s.Region,
			Logger:   logger,
		})
		return client, func() {}, nil
	}

	target := invoke.Target{Endpoint: mq.RedactURL(s.AMQPURL), Region: s.Region}
	conn, err := mq.NewConnection(s.AMQPURL, "cloudlet-cli", logger)
	if err != nil {
		return nil, nil, invoke.DiagnoseTransport(err, target)
	}

	client, err := mq.NewRPCClient(ctx, conn, logger, mq.RPCClientConfig{Region: s.Region})
	if err != nil {
		conn.Close()
		return nil, nil, invoke.DiagnoseTransport(err, target)
	}
	return client, func() { conn.Close() }, nil
}
