package logging

import (
	"io"
	"net"
	"os"
	"strings"

	logrustash "github.com/bshuster-repo/logrus-logstash-hook"
	"github.com/elastic/go-elasticsearch/v7"
	"github.com/sirupsen/logrus"
	"gopkg.in/go-extras/elogrus.v7"
)

// Config captures the settings needed to build a service logger.
type Config struct {
	// Level is the textual log level (debug, info, warn, error).
	Level string
	// Format is either "json" or "text".
	Format string
	// Service is attached to every entry shipped to ELK or Logstash.
	Service string

	ElkURL      string
	ElkIndex    string
	LogstashURL string
}

// ParseLevel converts textual levels into logrus levels, defaulting to info.
func ParseLevel(raw string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return logrus.TraceLevel
	case "debug", "dbg":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error", "err":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// New builds a logger writing to stdout.
func New(cfg Config) *logrus.Logger {
	return NewWithWriter(os.Stdout, cfg)
}

// NewWithWriter builds a logger for w and attaches the optional ELK and
// Logstash hooks. Hook failures are logged and otherwise ignored.
func NewWithWriter(w io.Writer, cfg Config) *logrus.Logger {
	logger := logrus.New()
	logger.Out = w
	logger.SetLevel(ParseLevel(cfg.Level))

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	service := cfg.Service
	if service == "" {
		service = "tablebooker"
	}

	if cfg.ElkURL != "" {
		client, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{cfg.ElkURL},
		})
		if err != nil {
			logger.WithError(err).Warn("elasticsearch client init failed")
		} else {
			index := cfg.ElkIndex
			if index == "" {
				index = service
			}
			hook, err := elogrus.NewAsyncElasticHook(client, service, logger.GetLevel(), index)
			if err != nil {
				logger.WithError(err).Warn("elasticsearch log hook init failed")
			} else {
				logger.Hooks.Add(hook)
			}
		}
	}

	if cfg.LogstashURL != "" {
		conn, err := net.Dial("udp", cfg.LogstashURL)
		if err != nil {
			logger.WithError(err).Warn("logstash dial failed")
		} else {
			logger.Hooks.Add(logrustash.New(conn, logrustash.DefaultFormatter(logrus.Fields{"type": service})))
		}
	}

	return logger
}
