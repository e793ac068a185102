package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/career-coach/internal/analysis"
	"github.com/spigell/career-coach/internal/logger"
	"github.com/spigell/career-coach/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (default 5000 or PORT)")

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the career-coach", zap.String("version", version))

	if !viper.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	components, err := newAIComponents(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai components", zap.Error(err))
	}

	store, closeStore, err := newResourceStore(ctx, config.Database, logger)
	if err != nil {
		logger.Fatal("opening resource store", zap.Error(err))
	}
	defer closeStore()

	service := analysis.NewService(components.analyzer, analysis.Config{
		Timeout:      config.AI.Timeout,
		MaxLogLength: config.AI.Gemini.MaxLogLength,
	}, logger)

	router := server.NewRouter(server.Config{
		RateLimit: config.AI.RateLimit,
	}, server.Deps{
		Analysis:    service,
		Suggestions: components.suggester,
		Status:      components.pinger,
		Resources:   store,
		Logger:      logger,
	})

	addr := fmt.Sprintf(":%d", config.Server.Port)
	if err := server.Run(ctx, addr, router, config.Server.ShutdownTimeout, logger); err != nil {
		logger.Error("http server stopped", zap.Error(err))
		return
	}

	logger.Info("career-coach stopped")
}
