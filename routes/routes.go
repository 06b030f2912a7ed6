package routes

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"parking-api/handlers"
	"parking-api/models"
	"parking-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware 驗證 JWT token，並提取 user_id 和 role
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "缺少 Authorization 標頭",
				"error":   "Authorization header is required",
				"code":    "ERR_NO_AUTH_HEADER",
			})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的 Authorization 格式",
				"error":   "Authorization header must be in the format 'Bearer <token>'",
				"code":    "ERR_INVALID_AUTH_FORMAT",
			})
			c.Abort()
			return
		}

		tokenString := parts[1]

		// 明確要求檢查 exp 字段
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return utils.JWTSecret, nil
		}, jwt.WithExpirationRequired())

		if err != nil {
			log.Printf("Token parsing error: %v", err)
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{
					"status":  false,
					"message": "token 已過期",
					"error":   "Token has expired",
					"code":    "ERR_TOKEN_EXPIRED",
				})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{
					"status":  false,
					"message": "無效的 token",
					"error":   err.Error(),
					"code":    "ERR_INVALID_TOKEN",
				})
			}
			c.Abort()
			return
		}

		// 檢查 Claims 是否有效
		if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
			// 確認 exp 字段存在
			if exp, ok := claims["exp"].(float64); !ok {
				log.Printf("Missing or invalid exp in token")
				c.JSON(http.StatusUnauthorized, gin.H{
					"status":  false,
					"message": "無效的 token 內容",
					"error":   "Missing or invalid exp claim",
					"code":    "ERR_INVALID_CLAIMS",
				})
				c.Abort()
				return
			} else {
				log.Printf("Token verified: exp=%v, current_time=%v", exp, time.Now().Unix())
			}

			// 確認 user_id 字段
			userID, ok := claims["user_id"].(float64)
			if !ok {
				log.Printf("Missing or invalid user_id in token")
				c.JSON(http.StatusUnauthorized, gin.H{
					"status":  false,
					"message": "無效的帳號 ID",
					"error":   "Invalid user_id in token",
					"code":    "ERR_INVALID_USER_ID",
				})
				c.Abort()
				return
			}

			// 確認 role 字段
			role, ok := claims["role"].(string)
			if !ok || (role != models.RoleAdmin && role != models.RoleClient) {
				log.Printf("Missing or invalid role in token: %v", role)
				c.JSON(http.StatusUnauthorized, gin.H{
					"status":  false,
					"message": "無效的角色",
					"error":   "Invalid role in token",
					"code":    "ERR_INVALID_ROLE",
				})
				c.Abort()
				return
			}

			c.Set("user_id", int(userID))
			c.Set("role", role) // 將 role 存入上下文
		} else {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的 token 內容",
				"error":   "Invalid token claims or token is not valid",
				"code":    "ERR_INVALID_CLAIMS",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RoleMiddleware 檢查帳號角色是否符合要求
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無法獲取角色資訊",
				"error":   "Role not found in context",
				"code":    "ERR_ROLE_NOT_FOUND",
			})
			c.Abort()
			return
		}

		roleStr, ok := role.(string)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的角色類型",
				"error":   "Invalid role type",
				"code":    "ERR_INVALID_ROLE_TYPE",
			})
			c.Abort()
			return
		}

		allowed := false
		for _, allowedRole := range allowedRoles {
			if roleStr == allowedRole {
				allowed = true
				break
			}
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"status":  false,
				"message": "權限不足",
				"error":   "Insufficient role permissions",
				"code":    "ERR_INSUFFICIENT_PERMISSIONS",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func Path(router *gin.RouterGroup) {
	// 版本控制
	v1 := router.Group("/v1")
	{
		// 測試路由
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(200, gin.H{"message": "pong"})
		})

		// 帳號路由
		users := v1.Group("/users")
		{
			// 公開路由：不需要 token 驗證
			users.POST("/register", handlers.RegisterUser) // 註冊帳號
			users.POST("/login", handlers.LoginUser)       // 登入並獲取 token

			// 受保護路由：需要 token 驗證
			usersWithAuth := users.Group("")
			usersWithAuth.Use(AuthMiddleware())
			{
				usersWithAuth.GET("/all", RoleMiddleware(models.RoleAdmin), handlers.GetAllUsers) // 查詢所有帳號
				usersWithAuth.GET("/:id", handlers.GetUser)                                       // 查詢特定帳號（admin 或本人）
				usersWithAuth.PATCH("/:id/password", handlers.UpdateUserPassword)                 // 修改自己的密碼
			}
		}

		// 客戶路由
		clients := v1.Group("/clients")
		clients.Use(AuthMiddleware())
		{
			// 建立客戶資料：僅 client 角色（綁定登入帳號）
			clients.POST("", RoleMiddleware(models.RoleClient), handlers.CreateClient)
			// 查詢自己的客戶資料：僅 client 角色
			clients.GET("/details", RoleMiddleware(models.RoleClient), handlers.GetClientDetails)
			// 查詢所有客戶：僅 admin
			clients.GET("", RoleMiddleware(models.RoleAdmin), handlers.GetAllClients)
			// 查詢特定客戶：僅 admin
			clients.GET("/:id", RoleMiddleware(models.RoleAdmin), handlers.GetClient)
		}

		// 車位路由
		vacancies := v1.Group("/vacancies")
		vacancies.Use(AuthMiddleware())
		{
			// 建立與查詢車位：僅 admin
			vacancies.POST("", RoleMiddleware(models.RoleAdmin), handlers.CreateVacancy)
			vacancies.GET("/:code", RoleMiddleware(models.RoleAdmin), handlers.GetVacancyByCode)
		}

		// 停車場路由
		parking := v1.Group("/parking-lots")
		parking.Use(AuthMiddleware())
		{
			// 進場：僅 admin
			parking.POST("/check-in", RoleMiddleware(models.RoleAdmin), handlers.CheckIn)
			// 出場：僅 admin
			parking.PUT("/check-out/:receipt", RoleMiddleware(models.RoleAdmin), handlers.CheckOut)
			// 以收據查詢停車中車輛：admin 和 client 都可以
			parking.GET("/receipt/:receipt", RoleMiddleware(models.RoleAdmin, models.RoleClient), handlers.GetParkingByReceipt)
			// 查詢特定客戶的停車紀錄：僅 admin
			parking.GET("/cpf/:cpf", RoleMiddleware(models.RoleAdmin), handlers.GetParkingsByCPF)
			// 查詢自己的停車紀錄：僅 client
			parking.GET("", RoleMiddleware(models.RoleClient), handlers.GetOwnParkings)
		}
	}
}
