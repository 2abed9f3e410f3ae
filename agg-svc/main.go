package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"tablebooker/agg-svc/internal/service"
	"tablebooker/agg-svc/internal/storage"
	"tablebooker/config"
	"tablebooker/events"
	"tablebooker/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	cfg.Log.Service = "agg-svc"
	logger := logging.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := config.MustInitPostgres(cfg.Database)
	defer db.Close()

	rdb := config.MustInitRedis(cfg.Redis)
	defer rdb.Close()

	reader := config.NewKafkaReader(cfg.Kafka, cfg.Kafka.GroupID, events.TopicReviews, events.TopicBookings)
	defer reader.Close()

	consumer := service.NewConsumer(
		reader,
		storage.NewStore(db, rdb),
		&service.LogNotifier{Logger: logger},
		logger,
	)

	logger.WithFields(logrus.Fields{
		"broker": cfg.Kafka.Broker,
		"group":  cfg.Kafka.GroupID,
	}).Info("Aggregation Service starting")
	consumer.Start(ctx)
}
