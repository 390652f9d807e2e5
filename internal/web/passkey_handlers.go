package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/evcraddock/realty/internal/apperr"
	"github.com/evcraddock/realty/internal/auth"
	"github.com/evcraddock/realty/internal/logging"
	"github.com/evcraddock/realty/internal/user"
)

// ceremonyTTL bounds how long an unfinished login ceremony is kept.
const ceremonyTTL = 5 * time.Minute

// passkeyHandlers serves WebAuthn registration and discoverable login.
// A successful login is answered with the same JWT as password signin.
type passkeyHandlers struct {
	wan      *webauthn.WebAuthn
	passkeys *auth.PasskeyStore
	users    *user.Repository
	tokens   *auth.TokenService
	now      func() time.Time

	// In-flight ceremonies. Registration is keyed by user ID, login by
	// a random ceremony ID handed to the client.
	mu          sync.Mutex
	regSessions map[int64]*webauthn.SessionData
	logins      map[string]loginCeremony
}

type loginCeremony struct {
	session *webauthn.SessionData
	created time.Time
}

func newPasskeyHandlers(origin string, passkeys *auth.PasskeyStore, users *user.Repository, tokens *auth.TokenService) (*passkeyHandlers, error) {
	parsed, err := url.Parse(origin)
	if err != nil {
		return nil, err
	}
	if parsed.Hostname() == "" {
		return nil, fmt.Errorf("webauthn origin %q has no host", origin)
	}

	wan, err := webauthn.New(&webauthn.Config{
		RPDisplayName: "Realty",
		RPID:          parsed.Hostname(),
		RPOrigins:     []string{origin},
	})
	if err != nil {
		return nil, err
	}

	return &passkeyHandlers{
		wan:         wan,
		passkeys:    passkeys,
		users:       users,
		tokens:      tokens,
		now:         time.Now,
		regSessions: make(map[int64]*webauthn.SessionData),
		logins:      make(map[string]loginCeremony),
	}, nil
}

// passkeyUser loads the account and its credentials for a registration ceremony.
func (h *passkeyHandlers) passkeyUser(c *gin.Context, id int64) (*auth.PasskeyUser, bool) {
	ctx := c.Request.Context()
	u, err := h.users.GetByID(ctx, id)
	if errors.Is(err, user.ErrNotFound) {
		respondError(c, apperr.New(apperr.NotFound, "User not found"))
		return nil, false
	}
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	creds, err := h.passkeys.WebAuthnCredentials(ctx, id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return auth.NewPasskeyUser(u, creds), true
}

// handleBeginRegistration starts registering a passkey for the caller.
func (h *passkeyHandlers) handleBeginRegistration(c *gin.Context) {
	who := caller(c)
	pu, ok := h.passkeyUser(c, who.ID)
	if !ok {
		return
	}

	// Exclude existing credentials so the same key is not registered twice.
	existing := pu.WebAuthnCredentials()
	exclude := make([]protocol.CredentialDescriptor, len(existing))
	for i, cred := range existing {
		exclude[i] = cred.Descriptor()
	}

	creation, session, err := h.wan.BeginRegistration(pu, webauthn.WithExclusions(exclude))
	if err != nil {
		respondError(c, fmt.Errorf("beginning registration: %w", err))
		return
	}

	h.mu.Lock()
	h.regSessions[who.ID] = session
	h.mu.Unlock()

	c.JSON(http.StatusOK, creation)
}

// handleFinishRegistration verifies the attestation and stores the
// credential under ?name= (default "Passkey").
func (h *passkeyHandlers) handleFinishRegistration(c *gin.Context) {
	who := caller(c)

	h.mu.Lock()
	session, ok := h.regSessions[who.ID]
	delete(h.regSessions, who.ID)
	h.mu.Unlock()

	if !ok {
		respondError(c, apperr.New(apperr.ValidationFailed, "No registration in progress"))
		return
	}

	pu, ok := h.passkeyUser(c, who.ID)
	if !ok {
		return
	}

	credential, err := h.wan.FinishRegistration(pu, *session, c.Request)
	if err != nil {
		logging.FromContext(c).Warn("passkey registration failed", zap.Error(err))
		respondError(c, apperr.New(apperr.ValidationFailed, "Registration failed"))
		return
	}

	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		name = "Passkey"
	}

	if err := h.passkeys.Save(c.Request.Context(), who.ID, name, credential); err != nil {
		respondError(c, err)
		return
	}

	logging.FromContext(c).Info("passkey registered", zap.Int64("user_id", who.ID))
	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

// handleBeginLogin starts a discoverable login and returns the ceremony
// ID the client must send back with the assertion.
func (h *passkeyHandlers) handleBeginLogin(c *gin.Context) {
	assertion, session, err := h.wan.BeginDiscoverableLogin()
	if err != nil {
		respondError(c, fmt.Errorf("beginning passkey login: %w", err))
		return
	}

	id := uuid.NewString()
	now := h.now()

	h.mu.Lock()
	h.pruneLocked(now)
	h.logins[id] = loginCeremony{session: session, created: now}
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"ceremony": id, "options": assertion})
}

// pruneLocked drops expired login ceremonies. h.mu must be held.
func (h *passkeyHandlers) pruneLocked(now time.Time) {
	for id, lc := range h.logins {
		if now.Sub(lc.created) > ceremonyTTL {
			delete(h.logins, id)
		}
	}
}

// handleFinishLogin verifies the assertion for ?ceremony= and issues a token.
func (h *passkeyHandlers) handleFinishLogin(c *gin.Context) {
	id := c.Query("ceremony")

	h.mu.Lock()
	lc, ok := h.logins[id]
	delete(h.logins, id)
	h.mu.Unlock()

	if !ok || h.now().Sub(lc.created) > ceremonyTTL {
		respondError(c, apperr.New(apperr.ValidationFailed, "No login in progress"))
		return
	}

	ctx := c.Request.Context()
	var account *user.User
	handler := func(_, userHandle []byte) (webauthn.User, error) {
		userID, err := auth.UserIDFromHandle(userHandle)
		if err != nil {
			return nil, protocol.ErrBadRequest.WithDetails(err.Error())
		}
		u, err := h.users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		creds, err := h.passkeys.WebAuthnCredentials(ctx, userID)
		if err != nil {
			return nil, err
		}
		account = u
		return auth.NewPasskeyUser(u, creds), nil
	}

	_, credential, err := h.wan.FinishPasskeyLogin(handler, *lc.session, c.Request)
	if err != nil || account == nil {
		logging.FromContext(c).Warn("passkey login failed", zap.Error(err))
		respondError(c, apperr.New(apperr.Unauthenticated, "Passkey login failed"))
		return
	}

	if err := h.passkeys.Update(ctx, account.ID, credential); err != nil {
		respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(auth.IdentityOf(account))
	if err != nil {
		respondError(c, err)
		return
	}

	logging.FromContext(c).Info("login success", zap.Int64("user_id", account.ID), zap.String("method", "passkey"))
	c.JSON(http.StatusOK, authResponse{Token: token, User: account})
}

// handleList returns the caller's passkeys.
func (h *passkeyHandlers) handleList(c *gin.Context) {
	creds, err := h.passkeys.ListByUser(c.Request.Context(), caller(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, creds)
}

// handleDelete removes one of the caller's passkeys.
func (h *passkeyHandlers) handleDelete(c *gin.Context) {
	err := h.passkeys.Delete(c.Request.Context(), c.Param("id"), caller(c).ID)
	if errors.Is(err, auth.ErrPasskeyNotFound) {
		respondError(c, apperr.New(apperr.NotFound, "Passkey not found"))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Passkey deleted")
}
