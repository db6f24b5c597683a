package middleware

import (
	"net/http"
	"strings"

	"github.com/s123600g/tokenforge/internal/api/http/handler"
	"github.com/s123600g/tokenforge/internal/logger"
	"github.com/s123600g/tokenforge/internal/model"
	"github.com/s123600g/tokenforge/internal/token"
)

// TokenParser verifies a presented token string and returns its claims.
type TokenParser interface {
	Parse(tokenString, signKey string) (token.Claims, error)
}

// Authenticate validates bearer tokens and injects token info into the
// request context.
type Authenticate struct {
	parser         TokenParser
	signKey        string
	issuer         string
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(parser TokenParser, signKey, issuer string, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		parser:         parser,
		signKey:        signKey,
		issuer:         issuer,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Handle parses the Authorization header, verifies the token and passes the
// request on with the verified claims in context.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || tokenString == "" {
			handler.WriteJSON(w, http.StatusUnauthorized, handler.Response{Status: false, Msg: "authorization token is missing"})
			return
		}

		claims, err := m.parser.Parse(tokenString, m.signKey)
		if err != nil {
			m.logger.Debug("Authenticate middleware: token rejected", "error", err.Error())
			handler.WriteJSON(w, http.StatusUnauthorized, handler.Response{Status: false, Msg: "authorization token is invalid"})
			return
		}

		if m.issuer != "" && claims.Issuer != m.issuer {
			m.logger.Debug("Authenticate middleware: issuer mismatch", "issuer", claims.Issuer)
			handler.WriteJSON(w, http.StatusUnauthorized, handler.Response{Status: false, Msg: "authorization token is invalid"})
			return
		}

		info := model.TokenInfo{
			TokenID: claims.ID,
			Issuer:  claims.Issuer,
			Subject: claims.Subject,
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetTokenInfoToContext(r.Context(), info)))
	})
}
