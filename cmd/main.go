package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/smartsitter/core/internal/config"
	"github.com/smartsitter/core/internal/db"
	"github.com/smartsitter/core/internal/handler"
	"github.com/smartsitter/core/internal/logging"
	"github.com/smartsitter/core/internal/model"
	"github.com/smartsitter/core/internal/repository"
	"github.com/smartsitter/core/internal/service"
)

func main() {
	// 1. Конфиг из env.
	appCfg := config.LoadAppConfig()
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		log.Fatalf("load db config: %v", err)
	}

	logger, err := logging.New(appCfg.IsProduction())
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	// 2. Подключаемся к БД через GORM.
	gormDB, err := db.NewGormDB(dbCfg)
	if err != nil {
		logger.Fatal("init db", zap.Error(err))
	}

	// 3. Миграции моделей.
	if err := model.AutoMigrate(gormDB); err != nil {
		logger.Fatal("auto migrate", zap.Error(err))
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("sql DB", zap.Error(err))
	}
	defer sqlDB.Close()

	// 4. Репозитории (реализации на GORM).
	profileRepo := repository.NewGormSitterProfileRepository(gormDB)
	availabilityRepo := repository.NewGormAvailabilityRepository(gormDB)
	bookingRepo := repository.NewGormBookingRepository(gormDB)
	reviewRepo := repository.NewGormReviewRepository(gormDB)
	notificationRepo := repository.NewGormNotificationRepository(gormDB)
	searchRepo := repository.NewGormSitterSearchRepository(gormDB)

	// 5. Сервисы.
	notifier := service.NewInAppNotifier(notificationRepo)
	bookingSvc := service.NewBookingService(gormDB, profileRepo, notifier, logger)
	sitterSvc := service.NewSitterService(searchRepo, profileRepo)
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, profileRepo)
	reviewSvc := service.NewReviewService(reviewRepo, bookingRepo)

	// 6. HTTP-сервер.
	router := handler.NewRouter(
		handler.NewBookingHandler(bookingSvc, profileRepo),
		handler.NewSitterHandler(sitterSvc),
		handler.NewAvailabilityHandler(availabilitySvc),
		handler.NewReviewHandler(reviewSvc),
		handler.NewNotificationHandler(notificationRepo),
		appCfg.IsProduction(),
	)

	srv := &http.Server{
		Addr:              appCfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("core HTTP server listening", zap.String("addr", appCfg.HTTPAddr))

	// 7. Запускаем сервер в горутине.
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http serve", zap.Error(err))
		}
	}()

	// 8. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
