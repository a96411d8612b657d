// Package service implements the registration client over the versioned ledger
package service

import (
	"context"
	"strings"
	"time"

	"ipvault/internal/adapters/ledger"
	"ipvault/internal/core/fingerprint"
	"ipvault/internal/core/ipasset"
	perr "ipvault/internal/platform/errors"
	"ipvault/internal/platform/logger"
	"ipvault/internal/services/registry/domain"
	"ipvault/internal/services/registry/repo"
)

// Service defines the registry service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the registry service
type Svc struct {
	sessions domain.Sessions
	cache    repo.Repo
	log      logger.Logger
	now      func() time.Time
}

var _ Service = (*Svc)(nil)

// New constructs the registry; a nil cache falls back to memory
func New(sessions domain.Sessions, cache repo.Repo) *Svc {
	if sessions == nil {
		panic("registry.Service requires a non nil session")
	}
	if cache == nil {
		cache = repo.NewMemory()
	}
	return &Svc{sessions: sessions, cache: cache, log: *logger.Named("registry"), now: time.Now}
}

// RegisterAsset validates locally, then submits one registration signed by owner
func (s *Svc) RegisterAsset(ctx context.Context, hash fingerprint.Hash, sd ipasset.StorageDescriptor, meta ipasset.Metadata, owner string) (ipasset.RegisteredAsset, error) {
	// local checks first so a bad request never reaches the wallet or the ledger
	meta, err := meta.Validate()
	if err != nil {
		return ipasset.RegisteredAsset{}, err
	}
	hash, err = fingerprint.Parse(hash.String())
	if err != nil {
		return ipasset.RegisteredAsset{}, perr.WithField(err, "hash")
	}
	owner, err = ipasset.NormalizeAddress(owner)
	if err != nil {
		return ipasset.RegisteredAsset{}, perr.WithField(err, "owner")
	}

	c, err := s.sessions.Client(ctx)
	if err != nil {
		return ipasset.RegisteredAsset{}, err
	}
	if !ipasset.SameAddress(c.Address(), owner) {
		return ipasset.RegisteredAsset{}, perr.WithField(
			perr.InvalidArgf("owner %s is not the connected account %s", owner, c.Address()), "owner")
	}

	sd.Hash = hash
	req := ledger.RegisterRequest{
		MediaURL:    sd.MediaLocator(),
		Name:        meta.Title,
		ContentHash: hash.String(),
		Owner:       owner,
		Metadata:    meta,
		Locators:    locators(sd),
	}
	res, err := c.Register(ctx, req)
	if err != nil {
		return ipasset.RegisteredAsset{}, Normalize(err)
	}

	id := strings.TrimSpace(res.IPAssetID)
	if id == "" {
		id = strings.TrimSpace(res.TxHash)
	}
	if id == "" {
		return ipasset.RegisteredAsset{}, perr.Backendf("ledger returned neither an asset id nor a transaction hash")
	}

	asset := ipasset.RegisteredAsset{
		ID:           id,
		Hash:         hash,
		Storage:      sd,
		Owner:        owner,
		RegisteredAt: s.now().UTC(),
		Metadata:     meta,
		TxHash:       res.TxHash,
	}
	s.remember(ctx, asset)
	logger.C(ctx).Info().
		Str("asset_id", id).
		Str("hash", hash.Short()).
		Str("media", req.MediaURL).
		Msg("asset registered")
	return asset, nil
}

// UpdateMetadata applies a partial update on top of the ledger copy
func (s *Svc) UpdateMetadata(ctx context.Context, id string, patch ipasset.MetadataPatch) (ipasset.RegisteredAsset, error) {
	id, err := assetID(id)
	if err != nil {
		return ipasset.RegisteredAsset{}, err
	}
	if patch.Empty() {
		return ipasset.RegisteredAsset{}, perr.Validationf("metadata patch is empty")
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return ipasset.RegisteredAsset{}, perr.WithField(perr.Validationf("title cannot be cleared"), "title")
	}

	c, err := s.sessions.Client(ctx)
	if err != nil {
		return ipasset.RegisteredAsset{}, err
	}
	cur, err := s.read(ctx, c, id)
	if err != nil {
		return ipasset.RegisteredAsset{}, err
	}
	meta, err := patch.Apply(cur.Metadata)
	if err != nil {
		return ipasset.RegisteredAsset{}, err
	}
	if _, err := c.UpdateMetadata(ctx, id, meta); err != nil {
		return ipasset.RegisteredAsset{}, Normalize(err)
	}
	cur.Metadata = meta
	s.remember(ctx, cur)
	return cur, nil
}

// SetRoyalties attaches a royalty policy; shares are not required to sum to 100
func (s *Svc) SetRoyalties(ctx context.Context, id string, policy ipasset.RoyaltyPolicy) error {
	id, err := assetID(id)
	if err != nil {
		return err
	}
	policy, err = policy.Validate()
	if err != nil {
		return err
	}
	c, err := s.sessions.Client(ctx)
	if err != nil {
		return err
	}
	if _, err := c.SetRoyaltyPolicy(ctx, id, policy); err != nil {
		return Normalize(err)
	}
	s.amend(ctx, id, func(a *ipasset.RegisteredAsset) { a.Royalties = &policy })
	return nil
}

// GrantPermission mints a license for the grant
func (s *Svc) GrantPermission(ctx context.Context, id string, p ipasset.Permission) error {
	id, err := assetID(id)
	if err != nil {
		return err
	}
	p, err = p.Validate()
	if err != nil {
		return err
	}
	c, err := s.sessions.Client(ctx)
	if err != nil {
		return err
	}
	if _, err := c.MintLicense(ctx, id, p); err != nil {
		return Normalize(err)
	}
	s.amend(ctx, id, func(a *ipasset.RegisteredAsset) { a.Permissions = append(a.Permissions, p) })
	return nil
}

// GetLineage lists ancestors from the direct parent upward
func (s *Svc) GetLineage(ctx context.Context, id string) ([]ipasset.RegisteredAsset, error) {
	id, err := assetID(id)
	if err != nil {
		return nil, err
	}
	c, err := s.sessions.Client(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := c.Relations(ctx, id)
	if err != nil {
		return nil, Normalize(err)
	}
	out := make([]ipasset.RegisteredAsset, 0, len(recs))
	for _, r := range recs {
		out = append(out, fromRecord(r))
	}
	return out, nil
}

// Asset reads through the ledger; when it is unreachable a cached copy is served as stale
func (s *Svc) Asset(ctx context.Context, id string) (ipasset.RegisteredAsset, error) {
	id, err := assetID(id)
	if err != nil {
		return ipasset.RegisteredAsset{}, err
	}
	c, err := s.sessions.Client(ctx)
	if err != nil {
		return ipasset.RegisteredAsset{}, err
	}
	a, err := s.read(ctx, c, id)
	if err == nil {
		s.remember(ctx, a)
		return a, nil
	}
	if !transient(err) {
		return ipasset.RegisteredAsset{}, err
	}
	cached, cerr := s.cache.Get(ctx, id)
	if cerr != nil {
		return ipasset.RegisteredAsset{}, err
	}
	logger.C(ctx).Warn().Err(err).Str("asset_id", id).Msg("ledger unreachable, serving cached asset")
	cached.Stale = true
	return cached, nil
}

// FindByHash looks up a previous registration of hash by owner in the cache
func (s *Svc) FindByHash(ctx context.Context, hash fingerprint.Hash, owner string) (ipasset.RegisteredAsset, bool, error) {
	a, err := s.cache.FindByHash(ctx, hash, owner)
	switch {
	case err == nil:
		return a, true, nil
	case perr.IsCode(err, perr.ErrorCodeNotFound):
		return ipasset.RegisteredAsset{}, false, nil
	default:
		return ipasset.RegisteredAsset{}, false, err
	}
}

// read fetches id from the ledger and merges the locators only the cache knows
func (s *Svc) read(ctx context.Context, c *ledger.Client, id string) (ipasset.RegisteredAsset, error) {
	rec, err := c.Asset(ctx, id)
	if err != nil {
		return ipasset.RegisteredAsset{}, Normalize(err)
	}
	a := fromRecord(rec)
	if cached, err := s.cache.Get(ctx, id); err == nil {
		if a.Storage.PrimaryLocator == "" || a.Storage.PrimaryLocator == cached.Storage.PrimaryLocator ||
			a.Storage.PrimaryLocator == cached.Storage.SecondaryLocator {
			a.Storage = cached.Storage
		}
		if a.TxHash == "" {
			a.TxHash = cached.TxHash
		}
	}
	return a, nil
}

// remember writes through to the cache, failures only log
func (s *Svc) remember(ctx context.Context, a ipasset.RegisteredAsset) {
	a.Stale = false
	if err := s.cache.Put(ctx, a); err != nil {
		logger.C(ctx).Warn().Err(err).Str("asset_id", a.ID).Msg("asset cache write failed")
	}
}

// amend updates a cached copy when there is one
func (s *Svc) amend(ctx context.Context, id string, fn func(*ipasset.RegisteredAsset)) {
	a, err := s.cache.Get(ctx, id)
	if err != nil {
		return
	}
	fn(&a)
	s.remember(ctx, a)
}

func fromRecord(r ledger.AssetRecord) ipasset.RegisteredAsset {
	h, _ := fingerprint.Parse(r.ContentHash)
	sd := ipasset.StorageDescriptor{Hash: h}
	if r.MediaURL != "" && !strings.HasPrefix(r.MediaURL, "urn:") {
		sd.PrimaryLocator = r.MediaURL
	}
	owner, err := ipasset.NormalizeAddress(r.Owner)
	if err != nil {
		owner = r.Owner
	}
	return ipasset.RegisteredAsset{
		ID:           r.ID,
		Hash:         h,
		Storage:      sd,
		Owner:        owner,
		RegisteredAt: r.RegisteredAt,
		Metadata:     r.Metadata,
		Lineage:      r.Parents,
		Royalties:    r.Royalties,
		Permissions:  r.Permissions,
		TxHash:       r.TxHash,
	}
}

func locators(sd ipasset.StorageDescriptor) []string {
	var out []string
	for _, l := range []string{sd.PrimaryLocator, sd.SecondaryLocator} {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func assetID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", perr.WithField(perr.InvalidArgf("asset id is required"), "id")
	}
	return id, nil
}

// transient reports whether a normalized error means the ledger could not answer
func transient(err error) bool {
	switch perr.CodeOf(err) {
	case perr.ErrorCodeBackend, perr.ErrorCodeUnavailable:
		return true
	}
	return false
}
