package app

import (
	accountshandler "staymi/internal/accounts/handler"
	accountsrepo "staymi/internal/accounts/repository"
	accountsservice "staymi/internal/accounts/service"
	accountsvalidator "staymi/internal/accounts/validator"
	cataloghandler "staymi/internal/catalog/handler"
	catalogrepo "staymi/internal/catalog/repository"
	catalogservice "staymi/internal/catalog/service"
	catalogvalidator "staymi/internal/catalog/validator"
	mediahandler "staymi/internal/media/handler"
	mediarepo "staymi/internal/media/repository"
	mediaservice "staymi/internal/media/service"
	ordershandler "staymi/internal/orders/handler"
	ordersrepo "staymi/internal/orders/repository"
	ordersservice "staymi/internal/orders/service"
	ordersvalidator "staymi/internal/orders/validator"
	paymentshandler "staymi/internal/payments/handler"
	"staymi/internal/payments/paypal"
	paymentsrepo "staymi/internal/payments/repository"
	paymentsservice "staymi/internal/payments/service"
	subscriptionshandler "staymi/internal/subscriptions/handler"
	subscriptionsrepo "staymi/internal/subscriptions/repository"
	subscriptionsservice "staymi/internal/subscriptions/service"
	"staymi/pkg/auth"
	"staymi/pkg/config"
	"staymi/pkg/contracts"
	mongodb "staymi/pkg/db/mongo"
	"staymi/pkg/events"
	"staymi/pkg/kafka"
	kafka_middleware "staymi/pkg/kafka/middleware"
	"staymi/pkg/model"
	"staymi/pkg/validation"
)

func (a *Application) buildPublisher(cfg *config.Config) (events.Publisher, error) {
	if cfg.Kafka == nil || !cfg.Kafka.Enabled() {
		cfg.Log.Info("Kafka disabled, domain events are only logged")
		return events.NewNoopPublisher(cfg.Log), nil
	}

	producer, err := kafka.NewProducer(cfg.Kafka, cfg.Log)
	if err != nil {
		return nil, err
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	a.producer = producer

	cfg.Log.Info("Kafka producer configured", "topic", producer.Topic())
	return events.NewKafkaPublisher(producer, cfg.ServiceName, cfg.Log), nil
}

func (a *Application) buildHandlers(cfg *config.Config) ([]contracts.Handler, error) {
	publisher, err := a.buildPublisher(cfg)
	if err != nil {
		return nil, err
	}

	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	txManager := mongodb.NewTransactionManager(cfg.Client.Mongo)
	locks := mongodb.NewLockManager(db)
	validate := validation.New(cfg.Log)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL, cfg.JWTIssuer)

	// accounts
	accountValidator := accountsvalidator.NewAccountValidator(validate)
	brands := catalogrepo.NewMongoBrandRepository(cfg)
	authRepos := accountsservice.AuthRepositories{
		Users:      accountsrepo.NewMongoUserRepository(cfg),
		StoreUsers: accountsrepo.NewMongoStoreUserRepository(cfg),
		Admins:     accountsrepo.NewMongoAdminUserRepository(cfg),
		Brands:     brands,
	}
	authService := accountsservice.NewAuthService(authRepos, tokens, txManager, accountValidator, cfg)
	userStatus := accountsservice.NewUserStatus(authRepos.Users, cfg.Log)
	adminService := accountsservice.NewAdminService(authRepos, accountValidator, cfg)

	// catalog
	catalogValidator := catalogvalidator.NewCatalogValidator(validate)
	hotelRepos := catalogservice.HotelRepositories{
		Hotels:       catalogrepo.NewMongoHotelRepository(cfg),
		RoomTypes:    catalogrepo.NewMongoRoomTypeRepository(cfg),
		Rooms:        catalogrepo.NewMongoRoomRepository(cfg),
		RoomPlans:    catalogrepo.NewMongoRoomPlanRepository(cfg),
		ProductPlans: catalogrepo.NewMongoProductPlanRepository(cfg),
	}
	orders := ordersrepo.NewMongoOrderRepository(cfg)
	images := mediarepo.NewGridFSImageRepository(cfg)

	brandService := catalogservice.NewBrandService(brands, catalogValidator, cfg)
	hotelService := catalogservice.NewHotelService(hotelRepos, orders, images, txManager, catalogValidator, cfg)
	roomService := catalogservice.NewRoomService(hotelService, hotelRepos.RoomTypes, hotelRepos.Rooms, hotelRepos.RoomPlans, catalogValidator, cfg)
	planService := catalogservice.NewPlanService(hotelService, hotelRepos.RoomTypes, hotelRepos.RoomPlans, hotelRepos.ProductPlans, catalogValidator, cfg)
	inventory := catalogservice.NewInventory(hotelRepos, cfg.Log)

	imageService := mediaservice.NewImageService(images, hotelService, cfg)

	// payments
	gateway := paypal.NewClient(paypal.Config{
		BaseURL:      cfg.PayPalBaseURL,
		ClientID:     cfg.PayPalClientID,
		ClientSecret: cfg.PayPalClientSecret,
		ReturnURL:    cfg.PayPalReturnURL,
		CancelURL:    cfg.PayPalCancelURL,
		BrandName:    cfg.PayPalBrandName,
		Timeout:      cfg.PayPalTimeout,
	}, cfg.Log)
	paymentService := paymentsservice.NewPaymentService(paymentsrepo.NewMongoPaymentRepository(cfg), gateway, publisher, cfg.Log)

	// subscriptions and orders
	subscriptionService := subscriptionsservice.NewSubscriptionService(
		subscriptionsrepo.NewMongoSubscriptionRepository(cfg),
		userStatus,
		paymentService,
		txManager,
		publisher,
		validate,
		cfg,
	)
	orderService := ordersservice.NewOrderService(
		orders,
		inventory,
		userStatus,
		subscriptionService,
		paymentService,
		locks,
		txManager,
		publisher,
		ordersvalidator.NewOrderValidator(validate, cfg.MaxStayNights),
		cfg,
	)
	paymentService.RegisterReconciler(model.PurposeOrder, orderService)
	paymentService.RegisterReconciler(model.PurposeSubscription, subscriptionService)
	a.orderSweeper = NewOrderSweeper(orderService, cfg.OrderSweepPeriod, cfg.RequestTimeout, cfg.Log)

	return []contracts.Handler{
		accountshandler.NewAuthHandler(authService, cfg.Log),
		accountshandler.NewAdminHandler(adminService, cfg.Log),
		cataloghandler.NewBrandHandler(brandService, cfg.Log),
		cataloghandler.NewHotelHandler(hotelService, cfg.Log),
		cataloghandler.NewRoomHandler(roomService, cfg.Log),
		cataloghandler.NewPlanHandler(planService, cfg.Log),
		mediahandler.NewImageHandler(imageService, cfg.MaxUploadSize, cfg.Log),
		paymentshandler.NewPaymentHandler(paymentService, cfg.Log),
		subscriptionshandler.NewSubscriptionHandler(subscriptionService, cfg.Log),
		ordershandler.NewOrderHandler(orderService, cfg.Log),
	}, nil
}
