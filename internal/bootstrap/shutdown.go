package bootstrap

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courseware/internal/kafka"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type server interface {
	Shutdown(ctx context.Context) error
}

func GracefulShutdown(srv *http.Server, redisClient *redis.Client, kafkaBundle *kafka.KafkaBundle) {
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		zap.S().Info("Shutting down gracefully...")

		var closers []func()
		if kafkaBundle != nil {
			closers = append(closers, kafkaBundle.Close)
		}
		if redisClient != nil {
			closers = append(closers, func() {
				if err := redisClient.Close(); err != nil {
					zap.S().Warnf("Redis close error: %v", err)
				}
			})
		}
		shutdown(srv, 10*time.Second, closers...)
	}()
}

// shutdown drains in-flight requests before closing the clients they use.
func shutdown(srv server, timeout time.Duration, closers ...func()) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.S().Errorf("Server shutdown error: %v", err)
	}
	for _, c := range closers {
		c()
	}
}
