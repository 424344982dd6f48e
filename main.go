package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/kejiahp/QRcode-event-manager/app"
	"github.com/kejiahp/QRcode-event-manager/aws"
	"github.com/kejiahp/QRcode-event-manager/cloudflare"
	"github.com/kejiahp/QRcode-event-manager/config"
	"github.com/kejiahp/QRcode-event-manager/db"
	"github.com/kejiahp/QRcode-event-manager/internal"
	"github.com/kejiahp/QRcode-event-manager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Values from a .env file never override the real environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read .env file, %w", err)
	}

	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}

	if err := app.MakeLogger(cfg.App.LogLevel); err != nil {
		return fmt.Errorf("failed to create logger, %w", err)
	}
	defer zap.L().Sync()

	if cfg.App.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	database, err := db.New(cfg.Database)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var images service.ImageStore

	switch cfg.Storage.Type {
	case "r2":
		images, err = cloudflare.NewR2(ctx, cfg.Storage)
	default:
		images, err = aws.NewS3(ctx, cfg.Storage)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize %s client, %w", cfg.Storage.Type, err)
	}

	d := internal.NewDeps(cfg, database, images, service.NewSMTPMailer(cfg.Mail))

	router, err := app.NewRouter(d)
	if err != nil {
		return err
	}

	addr := ":" + strconv.Itoa(cfg.Host.Port)
	zap.L().Info("Server starting", zap.String("addr", addr), zap.String("publicURL", cfg.Host.PublicURL))

	if cfg.Host.SSL.Enabled {
		return router.RunTLS(addr, cfg.Host.SSL.CertificatePath, cfg.Host.SSL.CertificateKeyPath)
	}

	return router.Run(addr)
}
