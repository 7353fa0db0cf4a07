package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ecommerce-api/internal/cache"
	"ecommerce-api/internal/config"
	"ecommerce-api/internal/database"
	"ecommerce-api/internal/handlers"
	"ecommerce-api/internal/payment"
	"ecommerce-api/internal/repository"
	"ecommerce-api/internal/routes"
	"ecommerce-api/internal/session"
	"ecommerce-api/internal/storage"
)

func main() {
	cfg := config.LoadConfig()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		logrus.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := database.Disconnect(client); err != nil {
			logrus.Errorf("failed to disconnect from MongoDB: %v", err)
		}
	}()
	db := client.Database(cfg.MongoDB)
	ensureIndexes(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	uploads, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		logrus.Fatalf("failed to prepare upload directory: %v", err)
	}

	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	sessions := session.NewManager(session.NewRedisStore(redisClient), sessionTTL)

	users := repository.NewUserRepository(db.Collection("users"))
	products := repository.NewProductRepository(db.Collection("products"))
	orders := repository.NewOrderRepository(db.Collection("orders"))
	categories := repository.NewCategoryRepository(db.Collection("categories"))
	banners := repository.NewBannerRepository(db.Collection("banners"))

	gateway := payment.NewStripeGateway(cfg.StripeSecretKey)
	listCache := cache.New(2 * time.Minute)

	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	routes.RegisterRoutes(router, routes.Deps{
		Auth: handlers.NewAuthHandler(users, sessions,
			int(sessionTTL.Seconds()), cfg.IsProd),
		Users:    handlers.NewUserHandler(users),
		Products: handlers.NewProductHandler(products, uploads, listCache),
		Orders:   handlers.NewOrderHandler(orders, users, products, gateway, cfg.FrontEndURL),
		Category: handlers.NewCategoryHandler(categories, uploads),
		Banners:  handlers.NewBannerHandler(banners, uploads),
		Admin:    handlers.NewAdminHandler(users, orders, products, categories),

		Sessions:  sessions,
		UserStore: users,
		UploadDir: uploads.Dir(),
	})

	logrus.Infof("server running on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}

// ensureIndexes creates the unique indexes the repositories rely on.
func ensureIndexes(db *mongo.Database) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logrus.Warnf("failed to ensure user email index: %v", err)
	}

	_, err = db.Collection("categories").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logrus.Warnf("failed to ensure category name index: %v", err)
	}
}
