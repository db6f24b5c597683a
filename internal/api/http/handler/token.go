package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/s123600g/tokenforge/internal/config"
	"github.com/s123600g/tokenforge/internal/logger"
	"github.com/s123600g/tokenforge/internal/model"
	"github.com/s123600g/tokenforge/internal/service"
)

// LifecycleService defines token issuance and refresh operations.
type LifecycleService interface {
	Issue(ctx context.Context, params service.IssueParams) (string, error)
	Refresh(ctx context.Context, oldTokenID string, params service.IssueParams) (string, error)
}

// Token handles HTTP endpoints for token issuance and refresh.
type Token struct {
	lifecycle      LifecycleService
	contextManager model.ContextManager
	jwt            config.JWT
	logger         *logger.Logger
}

// NewToken creates a new Token handler.
func NewToken(lifecycle LifecycleService, contextManager model.ContextManager, jwt config.JWT, logger *logger.Logger) *Token {
	return &Token{
		lifecycle:      lifecycle,
		contextManager: contextManager,
		jwt:            jwt,
		logger:         logger,
	}
}

func (h *Token) issueParams(subject string) service.IssueParams {
	return service.IssueParams{
		Issuer:        h.jwt.Issuer,
		Subject:       subject,
		Audience:      h.jwt.Audience,
		SignKey:       h.jwt.SignKey,
		ExpireMinutes: h.jwt.ExpireMinutes,
	}
}

// SignIn issues a fresh token for an anonymous session. There is no
// credential check; each call gets a newly generated subject.
func (h *Token) SignIn(w http.ResponseWriter, r *http.Request) {
	subject := uuid.NewString()

	signed, err := h.lifecycle.Issue(r.Context(), h.issueParams(subject))
	if err != nil {
		h.logger.Error("Token handler: sign-in failed",
			"subject", subject,
			"error", err.Error())
		WriteJSON(w, errorStatus(err), Response{Status: false, Msg: errorMessage(err)})
		return
	}

	h.logger.Info("Token handler: sign-in completed", "subject", subject)

	WriteJSON(w, http.StatusOK, Response{Status: true, JwtToken: signed, Msg: "sign in success"})
}

// Refresh exchanges the presented token for its successor. The authentication
// middleware has already verified the token and placed its claims in context.
func (h *Token) Refresh(w http.ResponseWriter, r *http.Request) {
	info, ok := h.contextManager.GetTokenInfoFromContext(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, Response{Status: false, Msg: "authorization required"})
		return
	}

	signed, err := h.lifecycle.Refresh(r.Context(), info.TokenID, h.issueParams(info.Subject))
	if err != nil {
		h.logger.Error("Token handler: refresh failed",
			"token_id", info.TokenID,
			"error", err.Error())
		WriteJSON(w, errorStatus(err), Response{Status: false, Msg: errorMessage(err)})
		return
	}

	h.logger.Info("Token handler: refresh completed", "old_token_id", info.TokenID)

	WriteJSON(w, http.StatusOK, Response{Status: true, JwtToken: signed, Msg: "refresh token success"})
}

// GetInfo echoes back the verified claims of the presented token.
func (h *Token) GetInfo(w http.ResponseWriter, r *http.Request) {
	info, ok := h.contextManager.GetTokenInfoFromContext(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, Response{Status: false, Msg: "authorization required"})
		return
	}

	WriteJSON(w, http.StatusOK, Response{
		Status: true,
		Msg:    fmt.Sprintf("issuer=%s subject=%s token_id=%s", info.Issuer, info.Subject, info.TokenID),
	})
}

// Home answers the service banner on the bare root path.
func (h *Token) Home(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, Response{Status: true, Msg: "token service is running"})
}

// Health reports liveness for probes.
func (h *Token) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
