package middlewares

import "github.com/gofiber/fiber/v2"

// TrustProxies makes c.IP() read X-Forwarded-For only for requests arriving
// from one of trusted. With an empty list the socket address is used.
func TrustProxies(fc fiber.Config, trusted []string) fiber.Config {
	fc.EnableTrustedProxyCheck = true
	fc.TrustedProxies = trusted
	if len(trusted) > 0 {
		fc.ProxyHeader = fiber.HeaderXForwardedFor
	}
	return fc
}
