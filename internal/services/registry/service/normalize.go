package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"regexp"

	"ipvault/internal/adapters/ledger"
	"ipvault/internal/adapters/wallet"
	perr "ipvault/internal/platform/errors"
)

var (
	reFunds   = regexp.MustCompile(`(?i)insufficient (funds|balance)`)
	reAccount = regexp.MustCompile(`(?i)not connected|no account|unauthorized`)
	reParams  = regexp.MustCompile(`(?i)invalid|malformed|bad request`)
)

// Normalize maps ledger and provider failures onto project codes
// order: existing code, wallet code, gateway status, message pattern, unknown
func Normalize(err error) error {
	if err == nil {
		return nil
	}
	if e, ok := perr.As(err); ok && e.Code() != perr.ErrorCodeUnknown {
		return err
	}

	if code, ok := wallet.ErrorCode(err); ok {
		switch code {
		case wallet.CodeUserRejected:
			return perr.Wrap(err, perr.ErrorCodeUserRejected, "signature request rejected")
		case wallet.CodeRequestPending:
			return perr.Wrap(err, perr.ErrorCodeRequestPending, "a wallet request is already pending")
		}
	}

	msg := err.Error()
	var se *ledger.StatusError
	if errors.As(err, &se) {
		switch {
		case se.Status == http.StatusPaymentRequired:
			return perr.Wrap(err, perr.ErrorCodeInsufficientFunds, "insufficient funds for the ledger fee")
		case se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden:
			return perr.Wrap(err, perr.ErrorCodeWalletNotConnected, "the ledger rejected the signing account")
		case se.Status == http.StatusBadRequest || se.Status == http.StatusUnprocessableEntity:
			return perr.Wrap(err, perr.ErrorCodeInvalidParameters, "the ledger rejected the request parameters")
		case se.Status == http.StatusNotFound:
			return perr.Wrap(err, perr.ErrorCodeNotFound, "asset not found on the ledger")
		case se.Status >= 500:
			return perr.Wrap(err, perr.ErrorCodeBackend, "ledger gateway failed")
		}
		msg = se.Message
	}

	if timeout(err) {
		return perr.Wrap(err, perr.ErrorCodeBackend, "ledger call timed out")
	}

	switch {
	case reFunds.MatchString(msg):
		return perr.Wrap(err, perr.ErrorCodeInsufficientFunds, "insufficient funds for the ledger fee")
	case reAccount.MatchString(msg):
		return perr.Wrap(err, perr.ErrorCodeWalletNotConnected, "wallet is not connected to the ledger")
	case reParams.MatchString(msg):
		return perr.Wrap(err, perr.ErrorCodeInvalidParameters, "invalid registration parameters")
	}
	return perr.New(perr.ErrorCodeUnknown, msg)
}

func timeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
