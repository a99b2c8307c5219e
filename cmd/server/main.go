package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"design_portal/internal/config"
	"design_portal/internal/database"
	"design_portal/internal/handlers"
	"design_portal/internal/lifecycle"
	"design_portal/internal/notify"
	"design_portal/internal/orchestrator"
	"design_portal/internal/realtime"
	"design_portal/internal/repository"
	"design_portal/internal/services"
	"design_portal/internal/store"
	"design_portal/pkg/contractgen"
	"design_portal/pkg/payment"
	"design_portal/pkg/shipping"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis
	rdb, err := realtime.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	// Collaborator clients
	paymentClient := payment.NewClient(cfg.PaymentAPIURL, cfg.PaymentAPIKey)
	shippingClient := shipping.NewClient(cfg.ShippingAPIURL, cfg.ShippingAPIKey)
	contractClient := contractgen.NewClient(cfg.ContractAPIURL, cfg.ContractAPIKey)

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)
	contractRepo := repository.NewContractRepository(db)
	taskRepo := repository.NewWorkTaskRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	// Lifecycle core
	evaluator := lifecycle.NewEvaluator(lifecycle.Rules{
		DepositPercent:         cfg.DepositPercent,
		CancellationFeePercent: cfg.CancellationFeePercent,
		RevisionCap:            cfg.RevisionCap,
	})
	entityStore := store.New()
	publisher := realtime.NewPublisher(rdb)

	orderOrch := orchestrator.NewOrderOrchestrator(
		orderRepo, contractRepo, taskRepo, customerRepo,
		paymentClient, contractClient, entityStore, publisher, evaluator)
	complaintOrch := orchestrator.NewComplaintOrchestrator(
		complaintRepo, shippingClient, entityStore, publisher, evaluator)

	// Initialize services
	notifier := notify.NewSMSNotifier(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	orderService := services.NewOrderService(orderRepo, taskRepo, orderOrch, entityStore, notifier)
	complaintService := services.NewComplaintService(complaintRepo, complaintOrch, entityStore, notifier)
	syncService := services.NewSyncService(orderRepo, complaintRepo, entityStore)

	// Realtime invalidation bridge: push messages coalesce into one silent
	// trailing refresh of the entity store.
	debouncer := realtime.NewDebouncer(
		realtime.SystemClock(),
		time.Duration(cfg.RefreshDebounceMS)*time.Millisecond,
		syncService.Refresh)
	bridge := realtime.NewBridge(rdb, debouncer)
	if err := bridge.Start(); err != nil {
		log.Fatal("Failed to start realtime bridge:", err)
	}
	defer bridge.Stop()

	// Periodic full reconcile as a backstop for missed push notifications.
	scheduler := cron.New()
	scheduler.AddFunc("* * * * *", func() { debouncer.Schedule() })
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize handlers
	apiHandler := handlers.NewAPIHandler(orderService, complaintService)

	// Setup routes
	router := gin.Default()

	api := router.Group("/api")
	{
		api.GET("/statuses", apiHandler.GetStatusTables)

		api.GET("/orders", apiHandler.ListOrders)
		api.GET("/orders/:id", apiHandler.GetOrder)
		api.POST("/orders/:id/transition", apiHandler.TransitionOrder)
		api.POST("/orders/:id/work-tasks", apiHandler.AssignDesigner)
		api.GET("/orders/:id/wallet-check", apiHandler.CheckWallet)

		api.GET("/complaints", apiHandler.ListComplaints)
		api.GET("/complaints/:id", apiHandler.GetComplaint)
		api.POST("/complaints/:id/transition", apiHandler.TransitionComplaint)
		api.PUT("/complaints/:id/line-items", apiHandler.ReviewLineItems)
		api.POST("/complaints/:id/evidence", apiHandler.AttachEvidence)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
