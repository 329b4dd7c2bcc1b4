package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lunanest/storytime/internal/auth"
	"github.com/lunanest/storytime/internal/config"
	"github.com/lunanest/storytime/internal/db"
	"github.com/lunanest/storytime/internal/repository"
	"github.com/lunanest/storytime/internal/service"
	"github.com/lunanest/storytime/internal/storage"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	Verifier            *auth.Verifier
	StoryService        *service.StoryService
	FolderService       *service.FolderService
	SubscriptionService *service.SubscriptionService
	PaymentService      *service.PaymentService
	AccountService      *service.AccountService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	storyRepository := repository.NewStoryRepository(database)
	audioRepository := repository.NewAudioRepository(database)
	folderRepository := repository.NewFolderRepository(database)
	subscriptionRepository := repository.NewSubscriptionRepository(database)
	paymentRepository := repository.NewPaymentRepository(database)
	preferencesRepository := repository.NewPreferencesRepository(database)
	accountRepository := repository.NewAccountRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	subscriptionService := service.NewSubscriptionService(subscriptionRepository, storyRepository)
	storyService := service.NewStoryService(storyRepository, audioRepository, subscriptionService, fileStorage)
	folderService := service.NewFolderService(folderRepository, storyRepository)
	paymentService := service.NewPaymentService(paymentRepository, subscriptionService, cfg.PaymentWebhookSecret)
	accountService := service.NewAccountService(
		accountRepository,
		storyRepository,
		audioRepository,
		folderRepository,
		paymentRepository,
		preferencesRepository,
		subscriptionService,
		fileStorage,
	)

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		Verifier:            auth.NewVerifier(cfg.AuthJWTSecret),
		StoryService:        storyService,
		FolderService:       folderService,
		SubscriptionService: subscriptionService,
		PaymentService:      paymentService,
		AccountService:      accountService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
