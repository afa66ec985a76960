package main

import (
	"context"
	"time"

	cataloghandler "hotelier/internal/catalog/handler"
	catalogrepository "hotelier/internal/catalog/repository"
	catalogservice "hotelier/internal/catalog/service"
	employeeshandler "hotelier/internal/employees/handler"
	employeesrepository "hotelier/internal/employees/repository"
	employeesservice "hotelier/internal/employees/service"
	employeesvalidator "hotelier/internal/employees/validator"
	eventshandler "hotelier/internal/events/handler"
	eventsrepository "hotelier/internal/events/repository"
	eventsservice "hotelier/internal/events/service"
	eventsvalidator "hotelier/internal/events/validator"
	feedbackhandler "hotelier/internal/feedback/handler"
	feedbackrepository "hotelier/internal/feedback/repository"
	feedbackservice "hotelier/internal/feedback/service"
	ordershandler "hotelier/internal/orders/handler"
	ordersrepository "hotelier/internal/orders/repository"
	ordersservice "hotelier/internal/orders/service"
	ordersvalidator "hotelier/internal/orders/validator"
	parkinghandler "hotelier/internal/parking/handler"
	parkingrepository "hotelier/internal/parking/repository"
	parkingservice "hotelier/internal/parking/service"
	parkingvalidator "hotelier/internal/parking/validator"
	remindershandler "hotelier/internal/reminders/handler"
	remindersrepository "hotelier/internal/reminders/repository"
	remindersservice "hotelier/internal/reminders/service"
	reservationshandler "hotelier/internal/reservations/handler"
	reservationsrepository "hotelier/internal/reservations/repository"
	reservationsservice "hotelier/internal/reservations/service"
	reservationsvalidator "hotelier/internal/reservations/validator"
	"hotelier/pkg/app"
	"hotelier/pkg/config"
	mongotx "hotelier/pkg/db/mongo"
	domainevents "hotelier/pkg/events"
	"hotelier/pkg/identifier"
	"hotelier/pkg/mailer"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load("hotelier-api")
	cfg.SetMongo()

	idgen, err := identifier.New(cfg.IDStrategy, cfg.IDSuffixWidth)
	if err != nil {
		cfg.Log.Fatal("Invalid ID generator configuration", "error", err)
	}

	var mail mailer.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, cfg.Log)
	} else {
		mail = mailer.NewConsoleMailer(cfg.Log)
	}

	var publisher domainevents.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = domainevents.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaEventTopic, cfg.Log)
	} else {
		publisher = domainevents.NoopPublisher{}
	}

	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	parkingRepo := parkingrepository.NewMongoParkingRepository(cfg)
	parkingLocks := mongotx.NewLockRepository(db, parkingrepository.LockCollectionName)
	ordersRepo := ordersrepository.NewMongoOrderRepository(cfg)
	orderLocks := mongotx.NewLockRepository(db, ordersrepository.LockCollectionName)
	remindersRepo := remindersrepository.NewMongoReminderRepository(cfg)
	reservationsRepo := reservationsrepository.NewMongoReservationRepository(cfg)
	eventsRepo := eventsrepository.NewMongoEventRepository(cfg)
	employeesRepo := employeesrepository.NewMongoEmployeeRepository(cfg)
	roomsRepo := catalogrepository.NewMongoRoomRepository(cfg)
	packagesRepo := catalogrepository.NewMongoPackageRepository(cfg)
	feedbackRepo := feedbackrepository.NewMongoFeedbackRepository(cfg)

	ensureIndexes(cfg, map[string]func(context.Context) error{
		"parking":       parkingRepo.EnsureIndexes,
		"parking_locks": parkingLocks.EnsureIndexes,
		"orders":        ordersRepo.EnsureIndexes,
		"order_locks":   orderLocks.EnsureIndexes,
		"reminders":     remindersRepo.EnsureIndexes,
		"reservations":  reservationsRepo.EnsureIndexes,
		"events":        eventsRepo.EnsureIndexes,
		"employees":     employeesRepo.EnsureIndexes,
		"rooms":         roomsRepo.EnsureIndexes,
	})

	parkingService := parkingservice.NewParkingService(
		parkingRepo,
		parkingLocks,
		parkingvalidator.NewParkingValidator(cfg.Log),
		idgen,
		publisher,
		cfg,
	)
	orderService := ordersservice.NewOrderService(
		ordersRepo,
		orderLocks,
		ordersvalidator.NewOrderValidator(cfg.Log),
		idgen,
		publisher,
		cfg,
	)
	reminderService := remindersservice.NewReminderService(
		remindersRepo,
		eventsRepo,
		mail,
		publisher,
		cfg,
	)
	reservationService := reservationsservice.NewReservationService(
		reservationsRepo,
		reservationsvalidator.NewReservationValidator(cfg.Log),
		idgen,
		publisher,
		cfg,
	)
	eventService := eventsservice.NewEventService(
		eventsRepo,
		eventsvalidator.NewEventValidator(cfg.Log),
		idgen,
		cfg,
	)
	employeeService := employeesservice.NewEmployeeService(
		employeesRepo,
		employeesvalidator.NewEmployeeValidator(cfg.Log),
		idgen,
		cfg,
	)
	catalogService := catalogservice.NewCatalogService(roomsRepo, packagesRepo, idgen, cfg)
	feedbackService := feedbackservice.NewFeedbackService(feedbackRepo, cfg)

	scheduler := cron.New()
	sweepSpec := "@every " + cfg.ReminderSweepInterval.String()
	if _, err := scheduler.AddFunc(sweepSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ReminderSweepInterval)
		defer cancel()
		if err := reminderService.Sweep(ctx, time.Now()); err != nil {
			cfg.Log.Error("Reminder sweep failed", "error", err)
		}
	}); err != nil {
		cfg.Log.Fatal("Failed to schedule reminder sweep", "spec", sweepSpec, "error", err)
	}

	application := app.NewApplication(cfg)
	application.SetApp(
		parkinghandler.NewParkingHandler(parkingService, cfg.Log),
		ordershandler.NewOrderHandler(orderService, cfg.Log),
		remindershandler.NewReminderHandler(reminderService, cfg.Log),
		reservationshandler.NewReservationHandler(reservationService, cfg.Log),
		eventshandler.NewEventHandler(eventService, cfg.Log),
		employeeshandler.NewEmployeeHandler(employeeService, cfg.Log),
		cataloghandler.NewCatalogHandler(catalogService, cfg.Log),
		feedbackhandler.NewFeedbackHandler(feedbackService, cfg.Log),
	)
	application.SetScheduler(scheduler)
	application.OnShutdown(func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	})
	application.OnShutdown(cfg.GracefulShutdown)

	application.Run()
}

func ensureIndexes(cfg *config.Config, indexers map[string]func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()

	for name, ensure := range indexers {
		if err := ensure(ctx); err != nil {
			cfg.Log.Fatal("Failed to ensure indexes", "collection", name, "error", err)
		}
	}
}
