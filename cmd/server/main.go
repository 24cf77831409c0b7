package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	webAdapter "micro-account/internal/adapters/web"
	"micro-account/internal/app"
	"micro-account/internal/core"
	"micro-account/internal/db"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic("logger: " + err.Error())
	}
	defer logger.Sync()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	stockService := core.NewStockService(pool, logger)
	customerService := core.NewCustomerService(pool)
	productService := core.NewProductService(pool, stockService)
	documentService := core.NewDocumentService(pool, stockService, logger)
	expenseService := core.NewExpenseService(pool)
	reportService := core.NewReportService(pool)
	userService := core.NewUserService(pool)

	svc := app.NewAppService(customerService, productService, stockService,
		documentService, expenseService, reportService, userService)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret, logger)

	logger.Info("server starting", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}
