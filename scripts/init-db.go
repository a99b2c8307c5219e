package main

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"design_portal/internal/config"
	"design_portal/internal/database"
	"design_portal/internal/models"
	"design_portal/internal/status"
)

func main() {
	fmt.Println("Initializing database...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Force recreate all tables
	fmt.Println("Dropping existing tables...")
	err = db.Migrator().DropTable(
		&models.Customer{},
		&models.ServiceOrder{},
		&models.OrderDetail{},
		&models.ExternalProduct{},
		&models.OrderStatusEvent{},
		&models.Complaint{},
		&models.ComplaintDetail{},
		&models.ComplaintStatusEvent{},
		&models.Contract{},
		&models.WorkTask{},
	)
	if err != nil {
		log.Printf("Warning: Error dropping tables: %v", err)
	}

	fmt.Println("Recreating tables...")
	err = db.AutoMigrate(
		&models.Customer{},
		&models.ServiceOrder{},
		&models.OrderDetail{},
		&models.ExternalProduct{},
		&models.OrderStatusEvent{},
		&models.Complaint{},
		&models.ComplaintDetail{},
		&models.ComplaintStatusEvent{},
		&models.Contract{},
		&models.WorkTask{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	seed(db)
	fmt.Println("Database initialized successfully")
}

func seed(db *gorm.DB) {
	customer := models.Customer{
		PublicID:      uuid.NewString(),
		FullName:      "Nguyễn Văn An",
		PhoneNumber:   "+84901234567",
		Email:         "an.nguyen@example.com",
		WalletID:      "wallet-demo-001",
		WalletBalance: 5_000_000,
	}
	if err := db.Create(&customer).Error; err != nil {
		log.Fatal("Failed to seed customer:", err)
	}

	designPrice := int64(6_000_000)
	order := models.ServiceOrder{
		PublicID:    uuid.NewString(),
		CustomerID:  customer.ID,
		Status:      status.OrderDoneDeterminingDesignPrice,
		DesignPrice: &designPrice,
		Details: []models.OrderDetail{
			{ProductID: "SKU-LAMP-01", ProductName: "Đèn gỗ treo trần", Quantity: 2, UnitPrice: 1_500_000},
			{ProductID: "SKU-SHELF-03", ProductName: "Kệ sách âm tường", Quantity: 1, UnitPrice: 3_200_000},
		},
	}
	if err := db.Create(&order).Error; err != nil {
		log.Fatal("Failed to seed order:", err)
	}
	for _, st := range []status.OrderStatus{
		status.OrderPending,
		status.OrderConsultingAndSketching,
		status.OrderDeterminingDesignPrice,
		status.OrderDoneDeterminingDesignPrice,
	} {
		if err := db.Create(&models.OrderStatusEvent{OrderID: order.ID, Status: st, Actor: "staff"}).Error; err != nil {
			log.Fatal("Failed to seed order history:", err)
		}
	}

	fmt.Printf("Seeded customer %s with order %s\n", customer.PublicID, order.PublicID)
}
