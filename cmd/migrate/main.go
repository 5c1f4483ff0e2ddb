package main

import (
	"context"
	"time"

	accountsrepo "staymi/internal/accounts/repository"
	accountsservice "staymi/internal/accounts/service"
	accountsvalidator "staymi/internal/accounts/validator"
	catalogrepo "staymi/internal/catalog/repository"
	mongoMigration "staymi/internal/migrations/mongo"
	"staymi/pkg/config"
	"staymi/pkg/validation"
)

const JobName = "mongo-migration"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()
	cfg := config.Load(JobName)
	cfg.SetMongo()
	cfg.Log.Info("Starting Mongo migration job")
	defer cfg.GracefulShutdown()
	migrateMongo(ctx, cfg)
	bootstrapAdmin(ctx, cfg)
	cfg.Log.Info("Migration completed successfully")
}

func migrateMongo(ctx context.Context, cfg *config.Config) {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	if err := mongoMigration.RunMigration(ctx, db, cfg.Log); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
}

func bootstrapAdmin(ctx context.Context, cfg *config.Config) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		cfg.Log.Info("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin bootstrap")
		return
	}

	admins := accountsservice.NewAdminService(accountsservice.AuthRepositories{
		Users:      accountsrepo.NewMongoUserRepository(cfg),
		StoreUsers: accountsrepo.NewMongoStoreUserRepository(cfg),
		Admins:     accountsrepo.NewMongoAdminUserRepository(cfg),
		Brands:     catalogrepo.NewMongoBrandRepository(cfg),
	}, accountsvalidator.NewAccountValidator(validation.New(cfg.Log)), cfg)

	created, err := admins.BootstrapAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		cfg.Log.Fatal("Admin bootstrap failed", "error", err)
	}
	cfg.Log.Info("Admin bootstrap finished", "email", cfg.AdminEmail, "created", created)
}
