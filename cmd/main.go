package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"shopfront/internal/router"
	"shopfront/pkg/authapi"
	"shopfront/pkg/cart"
	"shopfront/pkg/catalog"
	"shopfront/pkg/checkout"
	"shopfront/pkg/global"
	"shopfront/pkg/kv"
	"shopfront/pkg/session"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	var store kv.Store
	var redisClient *redis.Client
	var cache *catalog.Cache

	if global.IsDevMode() {
		log.Println("DEV_MODE enabled: using in-memory storage")
		store = kv.NewMemory()
	} else {
		redisClient = kv.NewRedisClient()
		ctx, cancel := global.GetDefaultTimer()
		err := redisClient.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Fatalf("Failed to ping Redis: %v", err)
		}
		log.Println("Connected to Redis successfully")
		store = kv.NewRedis(redisClient)
		cache = catalog.NewCache(redisClient)
	}

	authClient := authapi.NewClient(global.GetEnvOrDefault("AUTH_API_URL", "http://127.0.0.1:8080/api"))
	catalogClient := catalog.NewClient(global.GetEnvOrDefault("CATALOG_API_URL", "http://127.0.0.1:8080/api"), cache)

	sessions := session.New(store, authClient)
	carts := cart.New(store)

	var placer checkout.OrderPlacer
	if orderURL := os.Getenv("ORDER_API_URL"); orderURL != "" {
		placer = checkout.NewHTTPPlacer(orderURL)
	} else {
		log.Println("ORDER_API_URL not set: simulating order placement")
		placer = &checkout.SimulatedPlacer{}
	}
	flows := checkout.NewManager(carts, placer)

	router.InitEngine()
	router.InitializeRoutes(&router.API{
		Sessions: sessions,
		Carts:    carts,
		Checkout: flows,
		Catalog:  catalogClient,
		Redis:    redisClient,
	})

	port := global.GetEnvOrDefault("PORT", "8000")
	log.Printf("Server is running on port %s", port)

	if err := router.Router.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
