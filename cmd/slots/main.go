// Команда slots печатает слоты услуги на день и может сохранить ту же картинку,
// которую отправляет бот.
//
//	slots -service <uuid> -date 2026-10-19 [-png day.png] [-json]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Freeeeeet/booking_platform/internal/app"
	"github.com/Freeeeeet/booking_platform/internal/availability"
	"github.com/Freeeeeet/booking_platform/internal/config"
	"github.com/Freeeeeet/booking_platform/internal/controller/formatting"
	"github.com/Freeeeeet/booking_platform/internal/controller/images"
	"github.com/Freeeeeet/booking_platform/internal/repository"
	"github.com/Freeeeeet/booking_platform/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	serviceFlag := flag.String("service", "", "service id")
	dateFlag := flag.String("date", time.Now().Format(availability.DateLayout), "day to compute, YYYY-MM-DD")
	pngFlag := flag.String("png", "", "write the day image to this file")
	jsonFlag := flag.Bool("json", false, "print slots as JSON")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(app.LoggerConfig{
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Component:   "slots",
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	serviceID, err := uuid.Parse(*serviceFlag)
	if err != nil {
		logger.Fatal("Invalid -service", zap.String("value", *serviceFlag), zap.Error(err))
	}
	date, err := time.Parse(availability.DateLayout, *dateFlag)
	if err != nil {
		logger.Fatal("Invalid -date", zap.String("value", *dateFlag), zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	serviceRepo := repository.NewServiceRepository(pool)
	svc, err := serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		logger.Fatal("Failed to get service", zap.Error(err))
	}
	if svc == nil {
		logger.Fatal("Service not found", zap.String("service_id", serviceID.String()))
	}

	policy, err := availability.ParseConflictPolicy(cfg.ConflictPolicy)
	if err != nil {
		logger.Fatal("Invalid conflict policy", zap.Error(err))
	}
	availabilityCfg := service.DefaultAvailabilityConfig()
	availabilityCfg.Step = cfg.SlotStep
	availabilityCfg.Policy = policy
	availabilityCfg.FetchTimeout = cfg.DataTimeout

	availabilityService := service.NewAvailabilityService(
		service.NewRepositorySource(
			repository.NewAvailabilityRepository(pool),
			repository.NewBlockedSlotRepository(pool),
			repository.NewAppointmentRepository(pool),
			serviceRepo,
		),
		availabilityCfg,
		logger,
	)

	slots, err := availabilityService.GetAvailableSlots(ctx, svc.ProfessionalID, date, svc.ID)
	if err != nil {
		logger.Fatal("Failed to compute slots", zap.Error(err))
	}

	if *jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(slots); err != nil {
			logger.Fatal("Failed to encode slots", zap.Error(err))
		}
	} else {
		fmt.Println(formatting.FormatSlots(svc.Name, date, slots))
	}

	if *pngFlag == "" {
		return
	}

	imageData, err := images.GenerateDayImage(images.DaySlots{
		Title: svc.Name,
		Date:  date,
		Slots: slots,
	})
	if err != nil {
		logger.Fatal("Failed to render image", zap.Error(err))
	}
	if err := os.WriteFile(*pngFlag, imageData, 0o644); err != nil {
		logger.Fatal("Failed to write image", zap.Error(err))
	}
	logger.Info("Image written", zap.String("path", *pngFlag), zap.Int("bytes", len(imageData)))
}
