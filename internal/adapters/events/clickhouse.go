package events

import (
	"context"
	"strings"

	perr "ipvault/internal/platform/errors"
	"ipvault/internal/platform/store"
)

// Table receives one row per outcome
const Table = "registration_events"

// TableDDL creates Table
const TableDDL = `
create table if not exists registration_events (
	id        UUID,
	at        DateTime64(3, 'UTC'),
	item_id   String,
	trigger   LowCardinality(String),
	state     LowCardinality(String),
	owner     String,
	hash      String,
	asset_id  String,
	tx_hash   String,
	degraded  Array(String),
	code      LowCardinality(String),
	message   String
) engine = MergeTree
order by (at, item_id)
`

// EnsureTable creates the events table when missing
func EnsureTable(ctx context.Context, ch store.Clickhouse) error {
	if err := ch.Exec(ctx, TableDDL); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "create registration_events")
	}
	return nil
}

// ClickHouse appends outcomes for analytics
type ClickHouse struct{ ch store.Clickhouse }

// NewClickHouse wraps the store seam
func NewClickHouse(ch store.Clickhouse) *ClickHouse { return &ClickHouse{ch: ch} }

func (s *ClickHouse) Publish(ctx context.Context, e Event) error {
	degraded := e.Degraded
	if degraded == nil {
		degraded = []string{}
	}
	row := []any{
		e.ID, e.At, e.ItemID, e.Trigger, e.State, strings.ToLower(e.Owner),
		e.Hash, e.AssetID, e.TxHash, degraded, e.Code, e.Message,
	}
	if err := s.ch.Insert(ctx, Table, [][]any{row}); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "insert registration event")
	}
	return nil
}
