package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/unrolled/secure"
)

// SecureHeaders sets the usual hardening headers. HTTPS redirects are only
// enforced in production, behind a proxy that sets X-Forwarded-Proto.
func SecureHeaders(production bool) gin.HandlerFunc {
	s := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        production,
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !production,
	})
	return func(c *gin.Context) {
		// An error means secure already wrote the response (HTTPS redirect or
		// rejected host).
		if err := s.Process(c.Writer, c.Request); err != nil {
			log.Debug().
				Err(err).
				Str("request_id", c.GetString(RequestIDKey)).
				Msg("request answered by secure headers")
			c.Abort()
			return
		}
		c.Next()
	}
}
