package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/yockii/md2docx/internal/constant"
	"github.com/yockii/md2docx/internal/service"
)

// LocalAPIKey 通过认证的API Key在上下文中的键
const LocalAPIKey = "api_key"

// NewAPIKeyMiddleware 校验 Authorization: Bearer <key>。
// keys中以$2开头的条目按bcrypt哈希比较，其余按明文比较；keys为空时不做认证。
func NewAPIKeyMiddleware(keys []string) fiber.Handler {
	var plain, hashed []string
	for _, k := range keys {
		k = strings.TrimSpace(k)
		switch {
		case k == "":
		case strings.HasPrefix(k, "$2"):
			hashed = append(hashed, k)
		default:
			plain = append(plain, k)
		}
	}

	return func(c *fiber.Ctx) error {
		if len(plain) == 0 && len(hashed) == 0 {
			return c.Next()
		}

		// 获取api_key, Authorization Bearer
		authorization := c.Get(fiber.HeaderAuthorization)
		apiKey := strings.TrimSpace(strings.TrimPrefix(authorization, "Bearer "))
		if apiKey == "" || apiKey == authorization {
			return c.Status(fiber.StatusUnauthorized).JSON(service.Error(constant.ErrUnauthorized))
		}

		if !matchKey(apiKey, plain, hashed) {
			return c.Status(fiber.StatusUnauthorized).JSON(service.Error(constant.ErrUnauthorized))
		}

		c.Locals(LocalAPIKey, apiKey)
		return c.Next()
	}
}

func matchKey(apiKey string, plain, hashed []string) bool {
	for _, k := range plain {
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(k)) == 1 {
			return true
		}
	}
	for _, h := range hashed {
		if bcrypt.CompareHashAndPassword([]byte(h), []byte(apiKey)) == nil {
			return true
		}
	}
	return false
}
