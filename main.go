package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tourdesk/config"
	"tourdesk/database"
	"tourdesk/logging"
	"tourdesk/repository"
	"tourdesk/routers"
	"tourdesk/utils"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	database.ConnectDb()
	db := database.Database.Db

	users := repository.NewUserRepository(db)
	tours := repository.NewTourRepository(db)
	reviews := repository.NewReviewRepository(db)

	if err := database.SeedSuperAdmin(context.Background(), users, cfg.SeedAdminName, cfg.SeedAdminEmail, cfg.SeedAdminPassword, cfg.SaltRound); err != nil {
		logging.Fatal().Err(err).Msg("failed to seed super admin")
	}

	notifier := utils.NewChatNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
	events := utils.NewEventPublisher(cfg.RabbitURL)
	defer events.Close()

	digest, err := utils.InitializeReviewDigestScheduler(cfg.ReviewDigestCron, utils.NewReviewDigest(reviews, notifier))
	if err != nil {
		logging.Fatal().Err(err).Str("cron", cfg.ReviewDigestCron).Msg("invalid review digest schedule")
	}
	defer digest.Stop()

	app := routers.NewApp(routers.Dependencies{
		Config:   cfg,
		Users:    users,
		Tours:    tours,
		Reviews:  reviews,
		Logins:   repository.NewLoginTrackingRepository(db),
		Verifier: utils.NewRecaptchaVerifier(cfg.RecaptchaURL, cfg.RecaptchaSecret),
		Mailer:   utils.NewMailer(cfg.SendGridAPIKey, cfg.MailFrom),
		Notifier: notifier,
		Events:   events,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logging.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logging.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	logging.Info().Str("port", cfg.Port).Msg("server is running")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logging.Fatal().Err(err).Msg("server stopped")
	}
}
