// Package http exposes the wallet session over http
package http

import (
	stdhttp "net/http"

	"ipvault/internal/modkit/httpkit"
	"ipvault/internal/services/wallet/domain"
)

// Session is the slice of the session the handlers need
type Session interface {
	domain.ServicePort
	AccountsChanged(addrs []string)
}

// Register mounts wallet endpoints on the given router
func Register(r httpkit.Router, s Session) {
	h := &handlers{s: s}

	httpkit.Get(r, "/", h.snapshot)
	httpkit.Post(r, "/connect", h.connect)
	httpkit.Post(r, "/reconnect", h.reconnect)

	// external accountsChanged event from a wallet bridge
	httpkit.PostJSON[AccountsRequest](r, "/accounts", h.accounts)
}

type handlers struct{ s Session }

// AccountsRequest carries the new account list, empty disconnects
type AccountsRequest struct {
	Accounts []string `json:"accounts" validate:"max=16"`
}

// swagger:route GET /wallet Wallet walletSnapshot
// @Summary Current wallet session
// @Tags Wallet
// @Produce json
// @Success 200 {object} domain.Snapshot "ok"
// @Router /wallet [get]
func (h *handlers) snapshot(_ *stdhttp.Request) (any, error) {
	return h.s.Snapshot(), nil
}

// swagger:route POST /wallet/connect Wallet walletConnect
// @Summary Prompt the wallet for an account
// @Tags Wallet
// @Produce json
// @Success 200 {object} domain.Snapshot "ok"
// @Failure 409 {object} httpkit.Envelope "request pending"
// @Failure 424 {object} httpkit.Envelope "no provider"
// @Router /wallet/connect [post]
func (h *handlers) connect(r *stdhttp.Request) (any, error) {
	if _, err := h.s.Connect(r.Context()); err != nil {
		return nil, err
	}
	return h.s.Snapshot(), nil
}

// swagger:route POST /wallet/reconnect Wallet walletReconnect
// @Summary Restore a session from an authorized account without prompting
// @Tags Wallet
// @Produce json
// @Success 200 {object} domain.Snapshot "ok"
// @Router /wallet/reconnect [post]
func (h *handlers) reconnect(r *stdhttp.Request) (any, error) {
	if _, err := h.s.SilentReconnect(r.Context()); err != nil {
		return nil, err
	}
	return h.s.Snapshot(), nil
}

// swagger:route POST /wallet/accounts Wallet walletAccounts
// @Summary Apply an account change event
// @Tags Wallet
// @Accept json
// @Produce json
// @Param body body AccountsRequest true "Accounts"
// @Success 200 {object} domain.Snapshot "ok"
// @Router /wallet/accounts [post]
func (h *handlers) accounts(r *stdhttp.Request, in AccountsRequest) (any, error) {
	h.s.AccountsChanged(in.Accounts)
	return h.s.Snapshot(), nil
}
