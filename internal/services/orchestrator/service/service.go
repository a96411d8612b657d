// Package service sequences fingerprint, storage, wallet and ledger into one registration
package service

import (
	"context"
	"sort"
	"time"

	"ipvault/internal/adapters/events"
	"ipvault/internal/core/artifact"
	"ipvault/internal/core/fingerprint"
	"ipvault/internal/core/ipasset"
	perr "ipvault/internal/platform/errors"
	"ipvault/internal/platform/logger"
	"ipvault/internal/platform/metrics"
	"ipvault/internal/services/orchestrator/domain"
	"ipvault/internal/services/orchestrator/guardrails"
	"ipvault/internal/services/orchestrator/inflight"
	rsvc "ipvault/internal/services/registry/service"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// DefaultLockTTL bounds how long a crashed instance can block a key
const DefaultLockTTL = 5 * time.Minute

// Uploader is the storage stage
type Uploader interface {
	Upload(ctx context.Context, a artifact.Artifact) (ipasset.StorageDescriptor, error)
	Describe(a artifact.Artifact) (ipasset.StorageDescriptor, error)
}

// Wallet is the session stage
type Wallet interface {
	Connect(ctx context.Context) (string, error)
}

// Registrar is the ledger stage
type Registrar interface {
	RegisterAsset(ctx context.Context, hash fingerprint.Hash, storage ipasset.StorageDescriptor, meta ipasset.Metadata, owner string) (ipasset.RegisteredAsset, error)
	FindByHash(ctx context.Context, hash fingerprint.Hash, owner string) (ipasset.RegisteredAsset, bool, error)
}

// Service defines the orchestrator contract
type Service interface {
	domain.ServicePort
}

// Options carries the optional collaborators
type Options struct {
	Timeouts guardrails.Timeouts

	// Locker guards keys across instances, nil means local only
	Locker  inflight.Locker
	LockTTL time.Duration

	Events  events.Sink
	Metrics *metrics.Set
}

// Svc implements the orchestrator
type Svc struct {
	uploader Uploader
	wallet   Wallet
	registry Registrar
	opts     Options

	sf      singleflight.Group
	running *inflight.Set
	now     func() time.Time
	newID   func() string
}

var _ Service = (*Svc)(nil)

// New wires the three stages; every stage is required
func New(up Uploader, w Wallet, reg Registrar, o Options) *Svc {
	if up == nil || w == nil || reg == nil {
		panic("orchestrator.Service requires uploader, wallet and registry")
	}
	if o.Locker == nil {
		o.Locker = inflight.Nop{}
	}
	if o.LockTTL <= 0 {
		o.LockTTL = DefaultLockTTL
	}
	if o.Events == nil {
		o.Events = events.Nop{}
	}
	if o.Metrics == nil {
		o.Metrics = metrics.Default()
	}
	return &Svc{
		uploader: up,
		wallet:   w,
		registry: reg,
		opts:     o,
		running:  inflight.NewSet(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// job is one normalized trigger ready to run
type job struct {
	trigger    domain.Trigger
	art        artifact.Artifact
	meta       ipasset.Metadata
	skipUpload bool
	register   bool
}

// RegisterFile registers an uploaded file
func (s *Svc) RegisterFile(ctx context.Context, in domain.FileRequest) (domain.Outcome, error) {
	return s.run(ctx, job{
		trigger:    domain.TriggerFile,
		art:        in.Artifact,
		meta:       fileMetadata(in),
		skipUpload: in.SkipUpload,
		register:   true,
	})
}

// RegisterAIOutput registers generated text
func (s *Svc) RegisterAIOutput(ctx context.Context, in domain.AIOutputRequest) (domain.Outcome, error) {
	a, meta, err := aiInput(in)
	if err != nil {
		return s.reject(ctx, domain.TriggerAIOutput, err)
	}
	return s.run(ctx, job{trigger: domain.TriggerAIOutput, art: a, meta: meta, skipUpload: in.SkipUpload, register: true})
}

// SaveMixSession stores a mix and registers it unless Register is false
func (s *Svc) SaveMixSession(ctx context.Context, in domain.MixRequest) (domain.Outcome, error) {
	a, meta, err := mixInput(in, s.now())
	if err != nil {
		return s.reject(ctx, domain.TriggerMix, err)
	}
	return s.run(ctx, job{trigger: domain.TriggerMix, art: a, meta: meta, register: in.Register == nil || *in.Register})
}

// InFlight lists owner|hash keys running on this instance
func (s *Svc) InFlight() []string { return s.running.Keys() }

// reject ends a trigger that failed before any stage ran
func (s *Svc) reject(ctx context.Context, tr domain.Trigger, err error) (domain.Outcome, error) {
	out := domain.Outcome{ItemID: s.newID(), Trigger: tr}
	return s.finish(logger.WithItem(ctx, out.ItemID), out, "", err)
}

// run is the pipeline: gate, store, connect, register, publish
func (s *Svc) run(ctx context.Context, j job) (domain.Outcome, error) {
	out := domain.Outcome{ItemID: s.newID(), Trigger: j.trigger}
	ctx = logger.WithItem(ctx, out.ItemID)
	log := logger.C(ctx).With().Str("component", "orchestrator").Str("trigger", string(j.trigger)).Logger()

	// metadata gate before any storage or wallet work
	meta, err := j.meta.Validate()
	if err != nil {
		return s.finish(ctx, out, "", err)
	}

	sd, err := s.store(ctx, j)
	if err != nil {
		return s.finish(ctx, out, "", err)
	}
	out.Storage = sd
	log.Debug().Str("hash", sd.Hash.Short()).Bool("degraded", sd.Degraded()).Msg("stored")

	if !j.register {
		out.State = domain.StateSaved
		return s.finish(ctx, out, "", nil)
	}

	cctx, cancel := guardrails.ForConnect(ctx, s.opts.Timeouts)
	owner, err := s.wallet.Connect(cctx)
	cancel()
	if err != nil {
		return s.finish(ctx, out, "", err)
	}
	ctx = logger.WithOwner(ctx, owner)

	asset, dedup, err := s.register(ctx, sd, meta, owner)
	if err != nil {
		return s.finish(ctx, out, owner, err)
	}
	out.State = domain.StateRegistered
	out.Asset = &asset
	out.Deduplicated = dedup
	if dedup {
		log.Info().Str("asset_id", asset.ID).Msg("already registered")
	}
	return s.finish(ctx, out, owner, nil)
}

// store fingerprints and uploads, or only fingerprints when asked to skip
func (s *Svc) store(ctx context.Context, j job) (ipasset.StorageDescriptor, error) {
	if j.skipUpload {
		return s.uploader.Describe(j.art)
	}
	uctx, cancel := guardrails.ForUpload(ctx, s.opts.Timeouts)
	defer cancel()
	return s.uploader.Upload(uctx, j.art)
}

type registered struct {
	asset ipasset.RegisteredAsset
	dedup bool
}

// register coalesces concurrent attempts on owner|hash and runs at most one ledger call per key
func (s *Svc) register(ctx context.Context, sd ipasset.StorageDescriptor, meta ipasset.Metadata, owner string) (ipasset.RegisteredAsset, bool, error) {
	key := inflight.Key(owner, sd.Hash.String())

	// the first caller's values drive the attempt; work continues if that caller leaves
	work := context.WithoutCancel(ctx)
	ch := s.sf.DoChan(key, func() (any, error) {
		return s.attempt(work, key, sd, meta, owner)
	})
	select {
	case r := <-ch:
		if r.Err != nil {
			return ipasset.RegisteredAsset{}, false, r.Err
		}
		v := r.Val.(registered)
		return v.asset, v.dedup || r.Shared, nil
	case <-ctx.Done():
		return ipasset.RegisteredAsset{}, false, perr.Wrap(ctx.Err(), perr.ErrorCodeUnavailable, "registration abandoned")
	}
}

// attempt holds the lock for key, checks the cache, then registers once
func (s *Svc) attempt(ctx context.Context, key string, sd ipasset.StorageDescriptor, meta ipasset.Metadata, owner string) (registered, error) {
	done := s.running.Add(key)
	s.opts.Metrics.InFlight.Inc()
	defer func() {
		s.opts.Metrics.InFlight.Dec()
		done()
	}()

	release, err := s.opts.Locker.Acquire(ctx, key, s.opts.LockTTL)
	if err != nil {
		return registered{}, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			logger.C(ctx).Warn().Err(err).Str("key", key).Msg("inflight release failed")
		}
	}()

	if prev, ok, err := s.registry.FindByHash(ctx, sd.Hash, owner); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("dedup lookup failed")
	} else if ok {
		return registered{asset: prev, dedup: true}, nil
	}

	rctx, cancel := guardrails.ForRegister(ctx, s.opts.Timeouts)
	defer cancel()
	asset, err := s.registry.RegisterAsset(rctx, sd.Hash, sd, meta, owner)
	if err != nil {
		return registered{}, err
	}
	return registered{asset: asset}, nil
}

// finish records the terminal state, reports it and publishes the event
func (s *Svc) finish(ctx context.Context, out domain.Outcome, owner string, err error) (domain.Outcome, error) {
	if err != nil {
		err = rsvc.Normalize(err)
		w := perr.WireFrom(err)
		out.State = domain.StateFailed
		out.Error = &domain.OutcomeError{Code: w.Code.String(), Message: w.Message, Field: w.Field}
	}
	s.opts.Metrics.Registrations.WithLabelValues(string(out.Trigger), string(out.State)).Inc()

	e := events.Event{
		ItemID:  out.ItemID,
		Trigger: string(out.Trigger),
		State:   string(out.State),
		Owner:   owner,
		Hash:    out.Storage.Hash.String(),
	}
	if out.Asset != nil {
		e.AssetID = out.Asset.ID
		e.TxHash = out.Asset.TxHash
	}
	for slot := range out.Storage.Failures {
		e.Degraded = append(e.Degraded, slot)
	}
	sort.Strings(e.Degraded)
	if out.Error != nil {
		e.Code, e.Message = out.Error.Code, out.Error.Message
	}
	if pubErr := s.opts.Events.Publish(context.WithoutCancel(ctx), e.Stamp(s.now())); pubErr != nil {
		logger.C(ctx).Warn().Err(pubErr).Msg("outcome event not published")
	}

	ev := logger.C(ctx).Info()
	if err != nil {
		ev = logger.C(ctx).Warn().Err(err)
	}
	ev.Str("component", "orchestrator").Str("trigger", string(out.Trigger)).Str("state", string(out.State)).Msg("registration finished")
	return out, err
}

// String is used in startup logs
func (s *Svc) String() string {
	lock := "local"
	if _, ok := s.opts.Locker.(*inflight.Redis); ok {
		lock = "redis"
	}
	return "lock=" + lock + " lock_ttl=" + s.opts.LockTTL.String()
}
