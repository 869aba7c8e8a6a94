package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/sporto/kic/internal/app/core/domain"
	"github.com/sporto/kic/internal/app/core/usecase"
)

const localsUserKey = "acting_user"

// ActingUser 解析呼叫者身分並放入 fiber Locals
// 身分驗證 (密碼/Session) 不在本核心範圍，由上游反向代理完成後以
// X-User-ID 標頭傳入；這裡只負責把標頭還原成 AuthContext
func ActingUser(directory usecase.Directory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("X-User-ID")
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing X-User-ID header"})
		}

		userID, err := strconv.ParseInt(header, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid X-User-ID header"})
		}

		user, err := directory.User(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unknown user"})
		}

		c.Locals(localsUserKey, user)
		return c.Next()
	}
}

// actingUser 取出 middleware 放入的呼叫者
func actingUser(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(localsUserKey).(*domain.User)
	return user
}
