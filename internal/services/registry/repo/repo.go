// Package repo is the read-through cache of registered assets
package repo

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"ipvault/internal/core/fingerprint"
	"ipvault/internal/core/ipasset"
	"ipvault/internal/modkit/repokit"
	perr "ipvault/internal/platform/errors"
	"ipvault/internal/platform/store"
)

// Repo caches assets by id and by owner and hash
// misses return perr.ErrNotFound
type Repo interface {
	Put(ctx context.Context, a ipasset.RegisteredAsset) error
	Get(ctx context.Context, id string) (ipasset.RegisteredAsset, error)
	FindByHash(ctx context.Context, hash fingerprint.Hash, owner string) (ipasset.RegisteredAsset, error)
}

// Schema creates the cache table, safe to run repeatedly
const Schema = `
create table if not exists ip_assets (
	id            text primary key,
	content_hash  text not null,
	owner         text not null,
	doc           jsonb not null,
	registered_at timestamptz not null,
	updated_at    timestamptz not null default now()
);
create index if not exists ip_assets_owner_hash on ip_assets (owner, content_hash);
`

// Migrate applies Schema in one transaction
func Migrate(ctx context.Context, db repokit.TxRunner) error {
	return db.Tx(ctx, func(q repokit.Queryer) error {
		for _, stmt := range strings.Split(Schema, ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := q.Exec(ctx, stmt); err != nil {
				return perr.FromPostgres(err, "migrate ip_assets")
			}
		}
		return nil
	})
}

type (
	// PG binds the repo to a Queryer
	PG struct{}
	// queries implements Repo on postgres
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the postgres repo
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) Put(ctx context.Context, a ipasset.RegisteredAsset) error {
	doc, err := json.Marshal(a)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode asset")
	}
	const sql = `
insert into ip_assets (id, content_hash, owner, doc, registered_at)
values ($1, $2, $3, $4::jsonb, $5)
on conflict (id) do update
set content_hash = excluded.content_hash,
    owner = excluded.owner,
    doc = excluded.doc,
    updated_at = now()
`
	if err := store.ExecOne(ctx, r.q, sql, a.ID, a.Hash.String(), ownerKey(a.Owner), string(doc), a.RegisteredAt); err != nil {
		return perr.FromPostgresWithField(err, "cache asset")
	}
	return nil
}

func (r *queries) Get(ctx context.Context, id string) (ipasset.RegisteredAsset, error) {
	const sql = `select doc::text from ip_assets where id = $1`
	return store.One(ctx, r.q, scanDoc, sql, id)
}

func (r *queries) FindByHash(ctx context.Context, hash fingerprint.Hash, owner string) (ipasset.RegisteredAsset, error) {
	const sql = `
select doc::text from ip_assets
where owner = $1 and content_hash = $2
order by registered_at desc
limit 1
`
	return store.One(ctx, r.q, scanDoc, sql, ownerKey(owner), hash.String())
}

func scanDoc(row store.Row) (ipasset.RegisteredAsset, error) {
	var doc string
	if err := row.Scan(&doc); err != nil {
		return ipasset.RegisteredAsset{}, perr.FromPostgres(err, "scan asset")
	}
	var a ipasset.RegisteredAsset
	if err := json.Unmarshal([]byte(doc), &a); err != nil {
		return ipasset.RegisteredAsset{}, perr.Wrap(err, perr.ErrorCodeJSON, "decode cached asset")
	}
	return a, nil
}

// ownerKey is the lookup form of an address, checksum case is not significant
func ownerKey(addr string) string { return strings.ToLower(strings.TrimSpace(addr)) }

// Memory is the in-process cache used when postgres is not configured
type Memory struct {
	mu     sync.RWMutex
	byID   map[string]ipasset.RegisteredAsset
	byHash map[string]string
}

// NewMemory returns an empty in-process cache
func NewMemory() *Memory {
	return &Memory{byID: map[string]ipasset.RegisteredAsset{}, byHash: map[string]string{}}
}

var _ Repo = (*Memory)(nil)

func (m *Memory) Put(_ context.Context, a ipasset.RegisteredAsset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[a.ID] = a
	m.byHash[ownerKey(a.Owner)+"|"+a.Hash.String()] = a.ID
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (ipasset.RegisteredAsset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.byID[id]
	if !ok {
		return ipasset.RegisteredAsset{}, perr.ErrNotFound
	}
	return a, nil
}

func (m *Memory) FindByHash(_ context.Context, hash fingerprint.Hash, owner string) (ipasset.RegisteredAsset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byHash[ownerKey(owner)+"|"+hash.String()]
	if !ok {
		return ipasset.RegisteredAsset{}, perr.ErrNotFound
	}
	return m.byID[id], nil
}
