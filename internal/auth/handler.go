package auth

import (
	"strings"

	"imalat-takip-backend/internal/config"
	"imalat-takip-backend/internal/database"
	"imalat-takip-backend/internal/models"
	"imalat-takip-backend/internal/session"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Authenticate: Kullanıcı adı + şifre doğrulaması. Kullanıcı adı büyük/küçük
// harf duyarsız karşılaştırılır. Pasif kullanıcı veya yanlış şifre ayrımı
// yapılmadan nil döner (fail-closed).
func Authenticate(username, password string) *models.User {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil
	}

	var user models.User
	err := database.DB.
		Where("LOWER(username) = ? AND active = ?", strings.ToLower(username), true).
		First(&user).Error
	if err != nil {
		return nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil
	}

	return &user
}

func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		user := Authenticate(body.Username, body.Password)
		if user == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı adı veya şifre hatalı")
		}

		// Online görünürlüğü için oturum kaydı aç
		sess := session.Start(user.Username, user.Role)

		token, err := GenerateToken(cfg.JWTSecret, user, sess.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token oluşturulamadı")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":       user.ID,
				"username": user.Username,
				"role":     user.Role,
			},
		})
	}
}

func LogoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid, ok := c.Locals(CtxSessionIDKey).(uint); ok && sid != 0 {
			session.End(sid)
		}
		return c.JSON(fiber.Map{"message": "Çıkış yapıldı"})
	}
}

func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userIDVal := c.Locals(CtxUserIDKey)

		var user models.User
		if userID, ok := userIDVal.(uint); ok {
			if err := database.DB.First(&user, userID).Error; err == nil {
				return c.JSON(fiber.Map{
					"user_id":  user.ID,
					"username": user.Username,
					"role":     user.Role,
					"active":   user.Active,
				})
			}
		}

		// Fallback: veritabanından çekilemezse locals'dan döndür
		return c.JSON(fiber.Map{
			"user_id":  userIDVal,
			"username": c.Locals(CtxUsernameKey),
			"role":     c.Locals(CtxUserRoleKey),
		})
	}
}
