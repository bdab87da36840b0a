package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"oventreats/internal/backup"
	"oventreats/internal/config"
	"oventreats/internal/database"
	"oventreats/internal/events"
	"oventreats/internal/handlers"
	"oventreats/internal/middleware"
	"oventreats/internal/models"
	"oventreats/internal/provider"
	"oventreats/internal/storage"
	"oventreats/internal/store"
)

func main() {
	config.Load()

	if config.AppEnv.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	kv, err := openKV()
	if err != nil {
		log.Fatal(err)
	}

	bakeryStore, err := store.New(kv)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var mongoDB *mongo.Database
	if config.AppEnv.MongoURI != "" {
		client, err := database.Connect(config.AppEnv.MongoURI)
		if err != nil {
			log.Fatal(err)
		}
		mongoDB = client.Database(config.AppEnv.MongoDBName)
		log.Println("MongoDB connected to:", mongoDB.Name())

		if err := database.EnsureBackupIndexes(mongoDB); err != nil {
			log.Printf("backup index warning: %v", err)
		}
		if err := database.EnsureProductIndexes(mongoDB); err != nil {
			log.Printf("product index warning: %v", err)
		}
		if err := database.EnsureOrderIndexes(mongoDB); err != nil {
			log.Printf("order index warning: %v", err)
		}
	}

	backends := map[string]provider.Backend{
		provider.ModeLocal: provider.NewLocalBackend(bakeryStore),
	}
	if mongoDB != nil {
		backends[provider.ModeMongo] = provider.NewMongoBackend(mongoDB)
	}
	if config.AppEnv.PostgresURL != "" {
		pg, err := provider.NewPostgresBackend(ctx, config.AppEnv.PostgresURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()
		backends[provider.ModePostgres] = pg
	}

	dataProvider, err := provider.New(ctx, kv, backends)
	if err != nil {
		log.Fatal(err)
	}

	deviceID := backup.DeviceID(ctx, kv)
	remote := backup.NewRemoteStore(mongoDB, deviceID)
	autoBackup := backup.NewAutoBackup(kv, remote)

	if id, err := autoBackup.Run(ctx, bakeryStore); err != nil {
		log.Println("[BACKUP] [ERROR] startup auto-backup failed:", err)
	} else if id != "" {
		log.Println("[BACKUP] [INFO] startup auto-backup created:", id)
	}

	var publisher *events.Publisher
	if config.AppEnv.AMQPURL != "" {
		publisher, err = events.NewPublisher(config.AppEnv.AMQPURL)
		if err != nil {
			log.Fatal(err)
		}
		defer publisher.Close()
	}

	r := gin.Default()

	secret := config.AppEnv.JWTSecret
	ttl := config.AppEnv.AccessTokenTTL

	r.GET("/status", handlers.Status(bakeryStore, dataProvider))

	r.POST("/auth/setup", handlers.Setup(bakeryStore, secret, ttl))
	r.POST("/auth/login", handlers.Login(bakeryStore, secret, ttl))
	r.POST("/auth/logout", middleware.AuthGuard(secret), handlers.Logout(bakeryStore))
	r.GET("/auth/me", middleware.AuthGuard(secret), handlers.Me(bakeryStore))

	r.GET("/products", handlers.GetProducts(dataProvider))
	r.GET("/customers", middleware.AuthGuard(secret), handlers.GetCustomers(dataProvider))
	r.GET("/orders", middleware.AuthGuard(secret), handlers.GetOrders(dataProvider))
	r.POST("/orders", handlers.CreateOrder(dataProvider, publisher))

	staff := r.Group("/api")
	staff.Use(middleware.AuthGuard(secret, models.RoleAdmin, models.RoleStaff))
	{
		staff.POST("/products", handlers.CreateProduct(dataProvider))
		staff.PUT("/products/:id", handlers.UpdateProduct(dataProvider))
		staff.DELETE("/products/:id", handlers.DeleteProduct(dataProvider))
		staff.PATCH("/orders/:id/status", handlers.UpdateOrderStatus(dataProvider, publisher))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AuthGuard(secret, models.RoleAdmin))
	{
		admin.GET("/users", handlers.GetUsers(bakeryStore))
		admin.POST("/users", handlers.CreateUser(bakeryStore))
		admin.PUT("/users/:id", handlers.UpdateUser(bakeryStore))
		admin.DELETE("/users/:id", handlers.DeleteUser(bakeryStore))

		admin.GET("/backups", handlers.ListBackups(remote))
		admin.POST("/backups", handlers.CreateBackup(bakeryStore, remote))
		admin.POST("/backups/:id/restore", handlers.RestoreBackup(bakeryStore, remote))
		admin.DELETE("/backups/:id", handlers.DeleteBackup(remote))
		admin.POST("/backups/export", handlers.ExportBackup(bakeryStore, config.AppEnv.BackupDir))
		admin.POST("/backups/import", handlers.ImportBackup(bakeryStore))

		admin.GET("/auto-backup", handlers.GetAutoBackupSettings(autoBackup))
		admin.PUT("/auto-backup", handlers.UpdateAutoBackupSettings(autoBackup))
		admin.POST("/auto-backup/run", handlers.RunAutoBackup(bakeryStore, autoBackup))

		admin.GET("/database-mode", handlers.GetDatabaseMode(dataProvider))
		admin.PUT("/database-mode", handlers.SetDatabaseMode(dataProvider))
		admin.POST("/reset", handlers.ResetData(bakeryStore))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}

func openKV() (storage.KV, error) {
	if config.AppEnv.RedisURL != "" {
		kv, err := storage.NewRedisKV(config.AppEnv.RedisURL, "oventreats")
		if err != nil {
			return nil, err
		}
		log.Println("persistence: redis")
		return kv, nil
	}

	kv, err := storage.NewFileKV(config.AppEnv.DataDir)
	if err != nil {
		return nil, err
	}
	log.Println("persistence: file @", config.AppEnv.DataDir)
	return kv, nil
}
