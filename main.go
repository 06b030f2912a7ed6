package main

import (
	"log"
	"os"
	"time"

	"parking-api/database"
	"parking-api/handlers"
	"parking-api/models"
	"parking-api/repository"
	"parking-api/routes"
	"parking-api/services"
	"parking-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	// 載入 .env 檔案
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using default environment variables: %v", err)
	}

	// 固定時區，費用與收據都以此時區計算
	initTimezone()

	// 初始化 JWTSecret
	utils.InitJWTSecret()

	// 初始化資料庫
	database.InitDB()

	// 執行資料庫遷移
	database.DB.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Vacancy{},
		&models.ParkingSession{},
	)
	log.Println("Database migration completed")

	// 組裝資料層與服務層
	store := repository.NewGormStore(database.DB)
	userService := services.NewUserService(store)
	clientService := services.NewClientService(store)
	vacancyService := services.NewVacancyService(store)
	parkingService := services.NewParkingService(store)
	handlers.Init(userService, clientService, vacancyService, parkingService)

	// 確保預設管理員存在
	ensureAdminExists(userService)

	// 設置 Gin 模式
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "" {
		ginMode = gin.ReleaseMode
	}
	gin.SetMode(ginMode)
	log.Printf("Gin mode set to %s", ginMode)

	// 初始化 Gin 路由器
	r := gin.Default()

	// 創建一個 API 路由組
	api := r.Group("/api")
	{
		routes.Path(api)
	}

	// 啟動定時任務
	c := cron.New()

	// 車位使用狀況快照（每 5 分鐘記錄一次）
	_, err := c.AddFunc("*/5 * * * *", func() {
		free, busy, err := vacancyService.OccupancySnapshot()
		if err != nil {
			log.Printf("Failed to take occupancy snapshot: %v", err)
			return
		}
		log.Printf("Occupancy snapshot: free=%d, busy=%d", free, busy)
	})
	if err != nil {
		log.Fatalf("Failed to schedule occupancy snapshot cron job: %v", err)
	}

	c.Start()
	log.Println("Cron jobs started")

	// 啟動伺服器
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initTimezone 將整個行程固定在單一時區（預設 America/Sao_Paulo）
func initTimezone() {
	tz := os.Getenv("TZ")
	if tz == "" {
		tz = "America/Sao_Paulo"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Fatalf("Failed to load timezone %s: %v", tz, err)
	}
	time.Local = loc
	log.Printf("Timezone set to %s", tz)
}

// ensureAdminExists 檢查並創建預設管理員
func ensureAdminExists(userService *services.UserService) {
	users, err := userService.FindAll()
	if err != nil {
		log.Fatalf("Failed to fetch users: %v", err)
	}
	for _, user := range users {
		if user.Role == models.RoleAdmin {
			log.Printf("Admin already exists: username=%s", user.Username)
			return
		}
	}

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin@parking.com"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Println("ADMIN_PASSWORD not set, skipping default admin creation")
		return
	}

	admin := &models.User{
		Username: username,
		Password: password,
		Role:     models.RoleAdmin,
	}
	if err := userService.Register(admin); err != nil {
		log.Fatalf("Failed to create default admin: %v", err)
	}
	log.Printf("Default admin created: username=%s", admin.Username)
}
