// Package main is the entry point for the notification mailer.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/shineum/notify-mailer/internal/api"
	"github.com/shineum/notify-mailer/internal/compose"
	"github.com/shineum/notify-mailer/internal/config"
	"github.com/shineum/notify-mailer/internal/email"
	"github.com/shineum/notify-mailer/internal/gate"
	"github.com/shineum/notify-mailer/internal/provider"
	"github.com/shineum/notify-mailer/internal/provider/graph"
	"github.com/shineum/notify-mailer/internal/provider/resend"
	"github.com/shineum/notify-mailer/internal/provider/ses"
	"github.com/shineum/notify-mailer/internal/provider/smtp"
	"github.com/shineum/notify-mailer/internal/provider/stdout"
	"github.com/shineum/notify-mailer/internal/server"
	mailtls "github.com/shineum/notify-mailer/internal/tls"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file (optional)")
	flag.Parse()

	// Load configuration
	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	setupLogger(cfg.Logging.Level)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Select email delivery provider
	prov, err := selectProvider(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to create provider", "error", err)
		os.Exit(1)
	}

	handler := api.NewHandler(api.HandlerConfig{
		Gate: gate.New(cfg.HTTP.Path, cfg.HTTP.APIKey),
		Builder: compose.NewBuilder(email.Sender{
			Name:    cfg.Sender.Name,
			Address: cfg.Sender.Email,
		}),
		Provider:    prov,
		MaxBodySize: cfg.HTTP.MaxBodySize,
	})

	srvCfg := server.ServerConfig{
		ListenAddr: cfg.HTTP.Listen,
		Handler:    api.NewRouter(handler),
	}

	tlsMode := "off"
	if cfg.TLSEnabled() {
		opts := mailtls.Options{
			CertFile: cfg.TLS.CertFile,
			KeyFile:  cfg.TLS.KeyFile,
			Hosts:    certHosts(cfg.HTTP.Listen),
		}
		tlsConfig, err := mailtls.LoadOrGenerateTLS(opts)
		if err != nil {
			slog.Error("failed to setup TLS", "error", err)
			os.Exit(1)
		}
		srvCfg.TLSConfig = tlsConfig
		tlsMode = string(opts.Mode())
	}

	srv := server.New(srvCfg)

	slog.Info("starting notify-mailer",
		"listen", cfg.HTTP.Listen,
		"path", cfg.HTTP.Path,
		"sender", cfg.Sender.Email,
		"provider", prov.Name(),
		"tls_mode", tlsMode,
	)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Start the server (blocks until context is cancelled)
	if err := srv.ListenAndServe(ctx); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("notify-mailer stopped")
}

// loadConfig loads configuration from the specified path (YAML + env override)
// or from environment variables only if no path is given.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// setupLogger configures the global slog logger with JSON output and the
// specified log level.
func setupLogger(level string) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// certHosts returns extra SANs for a generated certificate: the host part
// of the listen address and the machine hostname.
func certHosts(listen string) []string {
	var hosts []string
	if host, _, err := net.SplitHostPort(listen); err == nil && host != "" {
		hosts = append(hosts, host)
	}
	if name, err := os.Hostname(); err == nil {
		hosts = append(hosts, name)
	}
	return hosts
}

// selectProvider chooses the email delivery backend based on configuration.
// An explicit PROVIDER takes precedence; when it is empty or "auto" the first
// configured backend in the order graph, ses, smtp, resend is used, else stdout.
func selectProvider(ctx context.Context, cfg *config.Config) (provider.Provider, error) {
	name := cfg.Provider
	if name == "" || name == "auto" {
		name = detectProvider(cfg)
		slog.Info("provider auto-detected", "provider", name)
	}

	switch name {
	case "ses":
		if !cfg.SESConfigured() {
			return nil, fmt.Errorf("SES provider selected but SES_REGION is required")
		}
		slog.Info("using AWS SES provider", "region", cfg.SES.Region)
		return ses.New(ctx, ses.SESProviderConfig{
			Region:          cfg.SES.Region,
			AccessKeyID:     cfg.SES.AccessKeyID,
			SecretAccessKey: cfg.SES.SecretAccessKey,
		})

	case "graph":
		if !cfg.GraphConfigured() {
			return nil, fmt.Errorf("Graph provider selected but GRAPH_TENANT_ID, GRAPH_CLIENT_ID and GRAPH_CLIENT_SECRET are required")
		}
		slog.Info("using Microsoft Graph provider", "tenant_id", cfg.Graph.TenantID)
		return graph.New(graph.GraphProviderConfig{
			TenantID:     cfg.Graph.TenantID,
			ClientID:     cfg.Graph.ClientID,
			ClientSecret: cfg.Graph.ClientSecret,
		}), nil

	case "smtp":
		if !cfg.SMTPConfigured() {
			return nil, fmt.Errorf("SMTP provider selected but SMTP_HOST is required")
		}
		slog.Info("using SMTP relay provider", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port, "ssl", cfg.SMTP.SSL)
		return smtp.New(smtp.SMTPProviderConfig{
			Host:               cfg.SMTP.Host,
			Port:               cfg.SMTP.Port,
			Username:           cfg.SMTP.Username,
			Password:           cfg.SMTP.Password,
			SSL:                cfg.SMTP.SSL,
			InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify,
		}), nil

	case "resend":
		if !cfg.ResendConfigured() {
			return nil, fmt.Errorf("Resend provider selected but RESEND_API_KEY is required")
		}
		slog.Info("using Resend provider")
		return resend.New(cfg.Resend.APIKey), nil

	case "stdout":
		slog.Info("using stdout provider")
		return stdout.New(), nil

	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}

// detectProvider returns the first configured backend, or "stdout".
func detectProvider(cfg *config.Config) string {
	switch {
	case cfg.GraphConfigured():
		return "graph"
	case cfg.SESConfigured():
		return "ses"
	case cfg.SMTPConfigured():
		return "smtp"
	case cfg.ResendConfigured():
		return "resend"
	default:
		return "stdout"
	}
}
