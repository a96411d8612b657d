// Package service implements the dual storage upload
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ipvault/internal/adapters/storage"
	"ipvault/internal/core/artifact"
	"ipvault/internal/core/fingerprint"
	"ipvault/internal/core/ipasset"
	perr "ipvault/internal/platform/errors"
	"ipvault/internal/platform/logger"
	"ipvault/internal/platform/metrics"
	"ipvault/internal/services/uploader/domain"
)

// Service defines the uploader contract
type Service interface {
	domain.ServicePort
	Backends() []domain.BackendInfo
}

// Options tunes the upload policy
type Options struct {
	// Timeout bounds each backend put independently, zero means parent deadline only
	Timeout time.Duration

	// RequireOne fails the upload when neither backend stored the artifact
	// the default keeps going with a hash only descriptor
	RequireOne bool

	Metrics *metrics.Set
}

// Svc pushes artifacts to a primary and a secondary backend
type Svc struct {
	primary   storage.Backend
	secondary storage.Backend
	opts      Options
	log       logger.Logger
	now       func() time.Time
}

// New constructs the uploader; nil backends are treated as disabled
func New(primary, secondary storage.Backend, o Options) *Svc {
	if o.Metrics == nil {
		o.Metrics = metrics.Default()
	}
	return &Svc{
		primary:   primary,
		secondary: secondary,
		opts:      o,
		log:       *logger.Named("uploader"),
		now:       time.Now,
	}
}

type putResult struct {
	locator string
	err     error
}

// Describe fingerprints a without touching any backend
func (s *Svc) Describe(a artifact.Artifact) (ipasset.StorageDescriptor, error) {
	h, err := a.Fingerprint()
	if err != nil {
		return ipasset.StorageDescriptor{}, err
	}
	return ipasset.StorageDescriptor{Hash: h}, nil
}

// Upload fingerprints once then runs both puts concurrently and waits for both
// backend failures land in Failures; they only fail the call under RequireOne
func (s *Svc) Upload(ctx context.Context, a artifact.Artifact) (ipasset.StorageDescriptor, error) {
	h, err := a.Fingerprint()
	if err != nil {
		return ipasset.StorageDescriptor{}, err
	}

	var (
		wg  sync.WaitGroup
		res [2]putResult
	)
	for i, b := range []storage.Backend{s.primary, s.secondary} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res[i] = s.put(ctx, b, h, a)
		}()
	}
	wg.Wait()

	d := ipasset.StorageDescriptor{
		Hash:             h,
		PrimaryLocator:   res[0].locator,
		SecondaryLocator: res[1].locator,
	}
	for i, slot := range []string{domain.SlotPrimary, domain.SlotSecondary} {
		if res[i].err == nil {
			continue
		}
		if d.Failures == nil {
			d.Failures = map[string]string{}
		}
		d.Failures[slot] = res[i].err.Error()
	}
	d.ResolvedURL = s.resolve(d)

	log := logger.C(ctx)
	if d.Degraded() {
		log.Warn().Str("hash", h.Short()).Interface("failures", d.Failures).Msg("storage degraded")
	}
	if s.opts.RequireOne && d.PrimaryLocator == "" && d.SecondaryLocator == "" {
		return d, perr.Backendf("no storage backend accepted the artifact")
	}
	log.Debug().Str("hash", h.Short()).Str("primary", d.PrimaryLocator).Str("secondary", d.SecondaryLocator).Msg("uploaded")
	return d, nil
}

// put runs one backend under its own timeout; a panic becomes a failure
func (s *Svc) put(ctx context.Context, b storage.Backend, h fingerprint.Hash, a artifact.Artifact) (out putResult) {
	if b == nil {
		return putResult{err: perr.Unavailablef("backend disabled")}
	}
	start := s.now()
	defer func() {
		if r := recover(); r != nil {
			out = putResult{err: perr.Newf(perr.ErrorCodePanic, "%s put panicked: %v", b.Name(), r)}
		}
		s.opts.Metrics.StoragePut.WithLabelValues(b.Name(), metrics.Outcome(out.err)).Observe(s.now().Sub(start).Seconds())
	}()

	cctx := ctx
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	loc, err := b.Put(cctx, h, a)
	if err != nil {
		if cctx.Err() != nil {
			err = perr.Wrapf(err, perr.ErrorCodeBackend, "%s put timed out", b.Name())
		}
		return putResult{err: err}
	}
	if loc == "" {
		return putResult{err: perr.Backendf("%s returned an empty locator", b.Name())}
	}
	return putResult{locator: loc}
}

func (s *Svc) resolve(d ipasset.StorageDescriptor) string {
	if d.PrimaryLocator != "" && s.primary != nil {
		if u := s.primary.Resolve(d.PrimaryLocator); u != "" {
			return u
		}
	}
	if d.SecondaryLocator != "" && s.secondary != nil {
		return s.secondary.Resolve(d.SecondaryLocator)
	}
	return ""
}

// Backends lists both slots and what is configured in each
func (s *Svc) Backends() []domain.BackendInfo {
	info := func(slot string, b storage.Backend) domain.BackendInfo {
		if b == nil {
			return domain.BackendInfo{Slot: slot, Backend: string(storage.KindNone)}
		}
		return domain.BackendInfo{Slot: slot, Backend: b.Name(), Enabled: true}
	}
	return []domain.BackendInfo{info(domain.SlotPrimary, s.primary), info(domain.SlotSecondary, s.secondary)}
}

// String is used in startup logs
func (s *Svc) String() string {
	b := s.Backends()
	return fmt.Sprintf("%s=%s %s=%s require_one=%t", b[0].Slot, b[0].Backend, b[1].Slot, b[1].Backend, s.opts.RequireOne)
}
