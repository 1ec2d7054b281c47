// cmd/server/main.go
package main

import (
	"fmt"
	"net/http"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mlenda000/dfg-server/internal/cache"
	"github.com/mlenda000/dfg-server/internal/middleware"
	"github.com/mlenda000/dfg-server/internal/server"
)

const releaseVersion = "0.1.0"

func main() {
	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}

func serve(cfg *Config) error {
	logger := logrus.New()
	if cfg.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	var historian *cache.Historian
	if cfg.redisAddr != "" {
		h, err := cache.NewHistorian(redis.NewClient(&redis.Options{Addr: cfg.redisAddr}), "")
		if err != nil {
			return fmt.Errorf("score historian: %w", err)
		}
		historian = h
		logger.Infof("score historian publishing to %s", cfg.redisAddr)
	}

	sess := server.NewSession(logger, historian)

	mux := http.NewServeMux()
	mux.Handle("/party/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		server.WSHandler(logger, sess),
	)))

	logger.Infof("Running on %s", cfg.addr())
	return http.ListenAndServe(cfg.addr(), mux)
}
