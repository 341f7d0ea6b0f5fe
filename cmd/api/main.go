package main

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dbadapter "github.com/subash43e/taskapp/internal/adapter/db"
	httpadapter "github.com/subash43e/taskapp/internal/adapter/http"
	"github.com/subash43e/taskapp/internal/adapter/http/handlers"
	httpmiddleware "github.com/subash43e/taskapp/internal/adapter/http/middleware"
	"github.com/subash43e/taskapp/internal/adapter/mail"
	"github.com/subash43e/taskapp/internal/adapter/notification"
	settingsadapter "github.com/subash43e/taskapp/internal/adapter/settings"
	"github.com/subash43e/taskapp/internal/app/scheduler"
	"github.com/subash43e/taskapp/internal/app/service"
	"github.com/subash43e/taskapp/internal/app/store"
	"github.com/subash43e/taskapp/internal/config"
	"github.com/subash43e/taskapp/internal/core/domain"
	"github.com/subash43e/taskapp/pkg/translator"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	translator.InitTranslator(translator.Config{
		TranslationFolder:  "pkg/translator/translation",
		SupportedLanguages: []string{translator.LanguageFr, translator.LanguageEn},
	})

	cfg := config.LoadConfig()
	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to mysql", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close mysql connection", zap.Error(err))
		}
	}()

	localSettings, err := settingsadapter.Open(cfg.SettingsPath)
	if err != nil {
		logger.Fatal("failed to load settings", zap.String("path", cfg.SettingsPath), zap.Error(err))
	}

	mailer := mail.New(mail.Config{
		Provider:    mail.Provider(localSettings.GetDefault(settingsadapter.KeyEmailProvider, string(mail.ProviderMock))),
		AccessKey:   localSettings.GetDefault(settingsadapter.KeyWeb3FormsKey, ""),
		APIEndpoint: localSettings.GetDefault(settingsadapter.KeyCustomAPIEndpoint, ""),
	}, logger)
	mailer.SetEnabled(localSettings.GetDefault(settingsadapter.KeyEmailNotifications, "true") != "false")

	notifier := notification.NewLogNotifier(logger)
	notifier.SetPermission(localSettings.GetDefault(settingsadapter.KeyBrowserNotifications, "false") == "true")

	taskRepository := dbadapter.NewTaskRepository(db)
	snapshot := store.New()

	// The sweep and digest read whatever the active session has loaded into
	// the snapshot; nothing is swept before a user signs in.
	feed := func(context.Context) ([]domain.Task, error) {
		return snapshot.Snapshot(), nil
	}

	loc, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		logger.Warn("invalid timezone, using local", zap.String("timezone", cfg.DefaultTimezone), zap.Error(err))
		loc = time.Local
	}

	sched := scheduler.New(
		mailer,
		notifier,
		feed,
		localSettings.GetDefault(settingsadapter.KeyUserEmail, ""),
		logger,
		scheduler.WithLocation(loc),
	)
	defer sched.Stop()
	sched.StartOverdueSweep()
	sched.ScheduleDailyDigest(digestHour(localSettings, cfg.DigestHour))

	taskService := service.NewTaskService(taskRepository, snapshot, sched, mailer, logger)

	r := gin.New()
	r.Use(gin.Recovery(), httpmiddleware.GinZapMiddleware(logger))
	if len(cfg.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			logger.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

	healthHandler := handlers.NewHealthHandler(db)
	taskHandler := handlers.NewTaskHandler(taskService)
	settingsHandler := handlers.NewSettingsHandler(localSettings, mailer, notifier, sched)
	httpadapter.RegisterRoutes(r, healthHandler, taskHandler, settingsHandler)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	logger.Info("starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("could not start server", zap.Error(err))
	}
}

func digestHour(s *settingsadapter.Store, fallback int) int {
	clock := s.GetDefault(settingsadapter.KeyDailyDigestTime, "")
	if clock == "" {
		return fallback
	}
	parts := strings.SplitN(clock, ":", 2)
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return fallback
	}
	return hour
}
