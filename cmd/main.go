package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"instacampus/internal/api"
	"instacampus/internal/config"
	"instacampus/internal/consumer"
	"instacampus/internal/entity"
	"instacampus/internal/repository"
	"instacampus/internal/service"
	"instacampus/migrations"
)

func connectDB(cfg *config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB %s", cfg.DBName)
				return db, nil
			}
		}
		log.Printf("Retry %d: failed to connect to DB %s (%s:%s): %v", i+1, cfg.DBName, cfg.DBHost, cfg.DBPort, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s at %s:%s after retries: %v", cfg.DBName, cfg.DBHost, cfg.DBPort, err)
}

func main() {
	cfg := config.Load()

	db, err := connectDB(cfg)
	if err != nil {
		panic(err)
	}

	if err := migrations.AutoMigrate(3, db); err != nil {
		log.Fatalf("Failed to migrate tables: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	orderWriter := config.NewKafkaWriter(config.OrderTopic)
	inventoryWriter := config.NewKafkaWriter(config.InventoryTopic)

	userRepo := repository.NewUserRepository(db)
	codeRepo := repository.NewVendorCodeRepository(db)
	productRepo := repository.NewProductRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	logRepo := repository.NewInventoryLogRepository(db)

	userService := service.NewUserService(userRepo, codeRepo, rdb, cfg.JWTSecret)
	productService := service.NewProductService(productRepo, rdb)
	cartService := service.NewCartService(cartRepo, productRepo, inventoryRepo)
	inventoryService := service.NewInventoryService(inventoryRepo, productRepo, logRepo, inventoryWriter)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo, inventoryRepo, orderWriter)

	authHandler := api.NewAuthHandler(userService)
	userHandler := api.NewUserHandler(userService)
	productHandler := api.NewProductHandler(productService)
	cartHandler := api.NewCartHandler(cartService)
	orderHandler := api.NewOrderHandler(orderService)
	vendorHandler := api.NewVendorHandler(orderService, inventoryService)

	auditConsumer := consumer.NewConsumer(logRepo)
	go auditConsumer.StartOrderConsumer()
	go auditConsumer.StartInventoryConsumer()

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(20),
				Burst:     50,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	userAuth := []echo.MiddlewareFunc{api.SessionJWT(cfg.JWTSecret), api.AttachUser(userRepo, rdb)}
	vendorAuth := append(append([]echo.MiddlewareFunc{}, userAuth...),
		api.RequireRoles(entity.RoleCanteenVendor, entity.RoleStationaryVendor))
	adminAuth := append(append([]echo.MiddlewareFunc{}, userAuth...),
		api.RequireRoles(entity.RoleAdmin))

	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, userAuth...)

	e.GET("/user", userHandler.GetProfile, userAuth...)
	e.PATCH("/user", userHandler.UpdateProfile, userAuth...)
	e.GET("/user/vendor/:role", userHandler.ListVendors, userAuth...)
	e.POST("/admin/vendor-code", userHandler.CreateVendorCode, adminAuth...)

	e.GET("/products", productHandler.ListProducts)
	e.GET("/products/category/:category", productHandler.ListProductsByCategory)
	e.GET("/product/:id", productHandler.GetProduct)
	e.POST("/product", productHandler.CreateProduct, vendorAuth...)
	e.PUT("/product/:id", productHandler.UpdateProduct, vendorAuth...)
	e.DELETE("/product/:id", productHandler.DeleteProduct, vendorAuth...)

	e.POST("/cart/add", cartHandler.AddItem, userAuth...)
	e.GET("/cart/:category", cartHandler.GetCart, userAuth...)
	e.POST("/cart/clear/:category", cartHandler.ClearCart, userAuth...)
	e.PUT("/cart/update-item", cartHandler.UpdateItem, userAuth...)
	e.DELETE("/cart/remove-item", cartHandler.RemoveItem, userAuth...)

	e.POST("/order/from-cart/:category", orderHandler.CreateFromCart, userAuth...)
	e.GET("/order", orderHandler.ListOrders, userAuth...)
	e.GET("/order/:id", orderHandler.GetOrder, userAuth...)
	e.PATCH("/order/cancel/:id", orderHandler.CancelOrder, userAuth...)

	e.GET("/inventory", vendorHandler.ListInventory, vendorAuth...)
	e.PATCH("/inventory/:id/restock", vendorHandler.Restock, vendorAuth...)
	e.PATCH("/inventory/:id/deduct", vendorHandler.Deduct, vendorAuth...)

	e.GET("/vendor/orders", vendorHandler.ListOrders, vendorAuth...)
	e.GET("/vendor/recent/orders", vendorHandler.ListRecentOrders, vendorAuth...)
	e.PATCH("/vendor/order/:status/:id", vendorHandler.UpdateOrderStatus, vendorAuth...)
	e.GET("/vendor/products", productHandler.ListVendorProducts, vendorAuth...)
	e.GET("/vendor/product/:id/logs", vendorHandler.StockHistory, vendorAuth...)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "instacampus",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	e.Logger.Fatal(e.Start(cfg.ListenAddr))
}
