package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireRole returns a middleware that rejects callers whose role is not in
// the allowed set. Runs after JWTMiddleware; roles are a fixed enum carried in
// the token claim, so no lookup is needed.
func RequireRole(allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals("userId").(uint); !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
		}

		role, ok := c.Locals("role").(string)
		if !ok {
			return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
		}

		for _, r := range allowed {
			if role == r {
				return c.Next()
			}
		}

		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}
}
