package utils

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTSecret 簽發與驗證 token 用的密鑰，由 InitJWTSecret 載入
var JWTSecret []byte

// token 有效期間（分鐘），可由環境變數覆寫
var jwtExpireMinutes = 30

// InitJWTSecret 從環境變數載入 JWT 密鑰與有效期間
func InitJWTSecret() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatalf("JWT_SECRET environment variable is not set")
	}
	JWTSecret = []byte(secret)

	if v := os.Getenv("JWT_EXPIRE_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			log.Fatalf("Invalid JWT_EXPIRE_MINUTES: %s", v)
		}
		jwtExpireMinutes = minutes
	}
	log.Printf("JWT initialized, token lifetime %d minutes", jwtExpireMinutes)
}

// GenerateToken 簽發帶有 user_id 與 role 的 token
func GenerateToken(userID int, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Duration(jwtExpireMinutes) * time.Minute).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret)
}
