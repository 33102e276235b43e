package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/santabot/santa-server-go/internal/util"
)

// SecretTokenHeader is the header Telegram echoes back when a webhook is
// registered with a secret_token.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

type SecretTokenMiddleware struct {
	secret string
}

func NewSecretTokenMiddleware(secret string) *SecretTokenMiddleware {
	return &SecretTokenMiddleware{secret: secret}
}

func (m *SecretTokenMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.secret == "" {
			log.Warn().Msg("webhook secret verification bypassed: WEBHOOK_SECRET is not configured")
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get(SecretTokenHeader)
		if token == "" {
			log.Warn().Msg("secret token middleware: missing token header")
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Missing secret token",
			})
			return
		}

		if !util.ConstantTimeEqual(m.secret, token) {
			log.Warn().Msg("secret token middleware: invalid token")
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Invalid secret token",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
