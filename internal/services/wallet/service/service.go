// Package service implements the wallet session state machine
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"ipvault/internal/adapters/ledger"
	"ipvault/internal/adapters/wallet"
	"ipvault/internal/core/ipasset"
	perr "ipvault/internal/platform/errors"
	"ipvault/internal/platform/logger"
	"ipvault/internal/platform/metrics"
	"ipvault/internal/services/wallet/domain"

	"golang.org/x/sync/singleflight"
)

// DefaultConnectTimeout bounds one eth_requestAccounts prompt
const DefaultConnectTimeout = 2 * time.Minute

// ClientFactory builds a ledger client for a signer
type ClientFactory func(ctx context.Context, s ledger.Signer) (*ledger.Client, error)

// AdapterFactory initializes the adapter and binds it to each new signer
func AdapterFactory(a ledger.Adapter) ClientFactory {
	return func(ctx context.Context, s ledger.Signer) (*ledger.Client, error) {
		if err := a.Init(ctx); err != nil {
			return nil, err
		}
		return ledger.NewClient(a, s), nil
	}
}

// Options tunes a session
type Options struct {
	ConnectTimeout time.Duration
	Metrics        *metrics.Set
}

// Session is one wallet session; the zero state is disconnected
type Session struct {
	provider wallet.Provider
	factory  ClientFactory
	opts     Options
	log      logger.Logger
	sf       singleflight.Group

	mu         sync.Mutex
	state      domain.State
	address    string
	client     *ledger.Client
	clientAddr string

	// buildMu serializes client construction
	buildMu sync.Mutex
}

var _ domain.ServicePort = (*Session)(nil)

// New returns a disconnected session; p may be nil when no wallet is configured
func New(p wallet.Provider, f ClientFactory, o Options) *Session {
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}
	if o.Metrics == nil {
		o.Metrics = metrics.Default()
	}
	return &Session{
		provider: p,
		factory:  f,
		opts:     o,
		log:      *logger.Named("wallet"),
		state:    domain.StateDisconnected,
	}
}

// DetectProvider reports whether a wallet provider is configured
func (s *Session) DetectProvider() bool { return s != nil && s.provider != nil }

// Address returns the connected account or empty
func (s *Session) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateConnected {
		return ""
	}
	return s.address
}

// Snapshot reports the current state
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Snapshot{
		Address:   s.address,
		Connected: s.state == domain.StateConnected,
		State:     s.state,
		Provider:  s.provider != nil,
	}
}

// SilentReconnect restores a session from an already authorized account
// without prompting; no provider or no account is not an error
func (s *Session) SilentReconnect(ctx context.Context) (string, error) {
	if s.provider == nil {
		return "", nil
	}
	if addr := s.Address(); addr != "" {
		return addr, nil
	}
	var accts []string
	if err := s.provider.Request(ctx, &accts, wallet.MethodAccounts); err != nil {
		return "", mapProviderErr(ctx, err)
	}
	if len(accts) == 0 {
		return "", nil
	}
	addr, err := ipasset.NormalizeAddress(accts[0])
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeProviderUnavailable, "wallet returned a malformed account")
	}
	s.mu.Lock()
	if s.state != domain.StateConnected {
		s.setConnectedLocked(addr)
	}
	addr = s.address
	s.mu.Unlock()
	logger.C(ctx).Debug().Str("address", addr).Msg("wallet session restored")
	return addr, nil
}

// Connect prompts the wallet for an account, concurrent callers share one prompt
func (s *Session) Connect(ctx context.Context) (string, error) {
	if s.provider == nil {
		err := perr.Newf(perr.ErrorCodeProviderUnavailable, "no wallet provider configured")
		s.observe(err)
		return "", err
	}
	if addr := s.Address(); addr != "" {
		return addr, nil
	}

	ch := s.sf.DoChan("connect", func() (any, error) {
		return s.requestAccounts(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return "", perr.Wrap(ctx.Err(), perr.ErrorCodeUnavailable, "wallet connect abandoned")
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (s *Session) requestAccounts(parent context.Context) (addr string, err error) {
	defer func() { s.observe(err) }()

	s.mu.Lock()
	if s.state == domain.StateConnected {
		addr = s.address
		s.mu.Unlock()
		return addr, nil
	}
	s.state = domain.StateConnecting
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(parent, s.opts.ConnectTimeout)
	defer cancel()

	var accts []string
	if err = s.provider.Request(ctx, &accts, wallet.MethodRequestAccounts); err != nil {
		s.abortConnecting()
		return "", mapProviderErr(ctx, err)
	}
	if len(accts) == 0 {
		s.abortConnecting()
		return "", perr.Newf(perr.ErrorCodeWalletNotConnected, "wallet returned no accounts, unlock it and retry")
	}
	addr, err = ipasset.NormalizeAddress(accts[0])
	if err != nil {
		s.abortConnecting()
		return "", perr.Wrap(err, perr.ErrorCodeProviderUnavailable, "wallet returned a malformed account")
	}

	s.mu.Lock()
	// an accounts event may have landed while the prompt was open
	if s.state == domain.StateConnecting {
		s.setConnectedLocked(addr)
	}
	addr = s.address
	connected := s.state == domain.StateConnected
	s.mu.Unlock()
	if !connected {
		return "", perr.Newf(perr.ErrorCodeWalletNotConnected, "wallet disconnected during connect")
	}

	logger.C(parent).Info().Str("address", addr).Msg("wallet connected")
	return addr, nil
}

func (s *Session) abortConnecting() {
	s.mu.Lock()
	if s.state == domain.StateConnecting {
		s.state = domain.StateDisconnected
		s.address = ""
	}
	s.mu.Unlock()
}

func (s *Session) setConnectedLocked(addr string) {
	if s.address != addr {
		s.client, s.clientAddr = nil, ""
	}
	s.address = addr
	s.state = domain.StateConnected
}

func (s *Session) observe(err error) {
	outcome := "ok"
	if err != nil {
		outcome = perr.CodeOf(err).String()
	}
	s.opts.Metrics.WalletConnects.WithLabelValues(outcome).Inc()
}

// AccountsChanged applies an external account change
// an empty list ends the session, any change drops the cached client
func (s *Session) AccountsChanged(addrs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.client, s.clientAddr = nil, ""
	if len(addrs) == 0 {
		if s.state != domain.StateDisconnected {
			s.log.Info().Str("address", s.address).Msg("wallet disconnected")
		}
		s.state, s.address = domain.StateDisconnected, ""
		return
	}
	addr, err := ipasset.NormalizeAddress(addrs[0])
	if err != nil {
		s.log.Warn().Err(err).Str("raw", addrs[0]).Msg("ignoring malformed account, session cleared")
		s.state, s.address = domain.StateDisconnected, ""
		return
	}
	if addr != s.address {
		s.log.Info().Str("from", s.address).Str("to", addr).Msg("wallet account changed")
	}
	s.address = addr
	s.state = domain.StateConnected
}

// Client returns the ledger client for the current account, rebuilding it
// when the account differs from the one the cached client was built for
func (s *Session) Client(ctx context.Context) (*ledger.Client, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	s.mu.Lock()
	if s.state != domain.StateConnected || s.address == "" {
		s.mu.Unlock()
		return nil, perr.NotInitializedf("wallet is not connected")
	}
	if s.client != nil && s.clientAddr == s.address {
		c := s.client
		s.mu.Unlock()
		return c, nil
	}
	addr := s.address
	s.mu.Unlock()

	if s.factory == nil {
		return nil, perr.NotInitializedf("no ledger configured")
	}
	c, err := s.factory(ctx, wallet.NewSigner(s.provider, addr))
	if err != nil {
		if !perr.IsCode(err, perr.ErrorCodeClientInitFailed) {
			err = perr.Wrap(err, perr.ErrorCodeClientInitFailed, "build ledger client")
		}
		logger.C(ctx).Error().Err(err).Str("address", addr).Msg("ledger client build failed")
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateConnected || s.address != addr {
		return nil, perr.NotInitializedf("wallet account changed while building the client")
	}
	s.client, s.clientAddr = c, addr
	return c, nil
}

// Watch polls eth_accounts and feeds changes into AccountsChanged until ctx ends
// polling only reacts while a session is connected
func (s *Session) Watch(ctx context.Context, interval time.Duration) {
	if s.provider == nil || interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.poll(ctx, interval)
		}
	}
}

func (s *Session) poll(ctx context.Context, interval time.Duration) {
	s.mu.Lock()
	cur, connected := s.address, s.state == domain.StateConnected
	s.mu.Unlock()
	if !connected {
		return
	}

	pctx, cancel := context.WithTimeout(ctx, interval)
	defer cancel()
	var accts []string
	if err := s.provider.Request(pctx, &accts, wallet.MethodAccounts); err != nil {
		s.log.Debug().Err(err).Msg("account poll failed")
		return
	}
	if len(accts) == 0 {
		s.AccountsChanged(nil)
		return
	}
	if !ipasset.SameAddress(accts[0], cur) {
		s.AccountsChanged(accts)
	}
}

// mapProviderErr converts provider failures into project codes
func mapProviderErr(ctx context.Context, err error) error {
	if code, ok := wallet.ErrorCode(err); ok {
		switch code {
		case wallet.CodeUserRejected:
			return perr.Wrap(err, perr.ErrorCodeUserRejected, "wallet connection rejected, approve the request and retry")
		case wallet.CodeRequestPending:
			return perr.Wrap(err, perr.ErrorCodeRequestPending, "a wallet connection request is already pending")
		}
		return perr.Wrap(err, perr.ErrorCodeProviderUnavailable, "wallet request failed")
	}
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "wallet connect timed out")
	}
	return perr.Wrap(err, perr.ErrorCodeProviderUnavailable, "wallet provider unreachable")
}

// String describes the session for logs
func (s *Session) String() string {
	snap := s.Snapshot()
	if !snap.Connected {
		return string(snap.State)
	}
	return string(snap.State) + " " + snap.Address
}
