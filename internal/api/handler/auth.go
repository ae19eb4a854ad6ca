package handler

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	jwt "github.com/golang-jwt/jwt/v5"
)

const userIDKey = "user_id"

// jwtSecret повертає ключ підпису токенів.
func jwtSecret() []byte {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return []byte(secret)
	}
	return []byte("YOUR_ULTRA_SECRET_KEY_HERE")
}

// generateJWT генерує JWT, прив'язаний до ID користувача.
func generateJWT(userID string) (string, error) {
	// Встановлюємо claims, включаючи UserID та термін дії
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
		"iss":     "swapgogo-service", // Видавець
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// validateAndGetUserID перевіряє токен та дістає з нього user_id.
func validateAndGetUserID(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.New("user_id claim missing")
	}
	return userID, nil
}

// GetToken видає JWT для користувача. Сама ідентичність — відповідальність
// зовнішнього шару; якщо user_id не передано, генеруємо анонімний UUID.
func (h *Handler) GetToken(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		userUUID, _ := uuid.NewRandom()
		userID = userUUID.String()
	}

	token, err := generateJWT(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user_id": userID})
}

// AuthRequired — middleware, що кладе user_id з Bearer-токена у контекст.
// Для WebSocket дозволяємо токен у query-параметрі, бо браузерний клієнт не
// може виставити заголовок.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""

		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else if t := c.Query("token"); t != "" {
			tokenString = t
		}

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}

		userID, err := validateAndGetUserID(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString(userIDKey)
}
