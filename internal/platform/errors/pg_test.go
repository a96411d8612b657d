package errors

import (
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pgErr(code, table, column, constraint string) error {
	return fmt.Errorf("exec: %w", &pgconn.PgError{Code: code, TableName: table, ColumnName: column, ConstraintName: constraint})
}

func TestPgCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		state string
		want  ErrorCode
	}{
		{"23505", ErrorCodeDuplicateKey},
		{"23502", ErrorCodeValidation},
		{"23514", ErrorCodeValidation},
		{"22001", ErrorCodeInvalidArgument},
		{"22P02", ErrorCodeInvalidArgument},
		{"25006", ErrorCodeUnavailable},
		{"57P03", ErrorCodeUnavailable},
		{"40001", ErrorCodeDB},
		{"XX000", ErrorCodeDB},
	}
	for _, c := range cases {
		got, ok := PgCode(pgErr(c.state, "", "", ""))
		if !ok || got != c.want {
			t.Fatalf("PgCode(%s) = %v, %v; want %v", c.state, got, ok, c.want)
		}
	}
	if _, ok := PgCode(stderrs.New("dial tcp: refused")); ok {
		t.Fatalf("non postgres error classified")
	}
}

func TestFromPostgres(t *testing.T) {
	t.Parallel()

	if FromPostgres(nil, "cache asset") != nil {
		t.Fatalf("nil should stay nil")
	}

	err := FromPostgres(pgErr("57P03", "", "", ""), "cache asset")
	if CodeOf(err) != ErrorCodeUnavailable || HTTPStatus(err) != 503 {
		t.Fatalf("code = %v status = %d", CodeOf(err), HTTPStatus(err))
	}
	var pe *pgconn.PgError
	if !stderrs.As(err, &pe) || pe.Code != "57P03" {
		t.Fatalf("cause lost: %v", err)
	}

	if CodeOf(FromPostgres(stderrs.New("conn closed"), "scan asset")) != ErrorCodeDB {
		t.Fatalf("foreign error should map to ErrorCodeDB")
	}
}

func TestFromPostgresWithField(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		code ErrorCode
		want string
	}{
		{"column", pgErr("23502", "ip_assets", "owner", ""), ErrorCodeValidation, "owner"},
		{"primary key", pgErr("23505", "ip_assets", "", "ip_assets_pkey"), ErrorCodeDuplicateKey, "id"},
		{"unique", pgErr("23505", "ip_assets", "", "ip_assets_content_hash_key"), ErrorCodeDuplicateKey, "content_hash"},
		{"check", pgErr("23514", "ip_assets", "", "ip_assets_owner_check"), ErrorCodeValidation, "owner"},
		{"unnamed", pgErr("23514", "ip_assets", "", "lower_owner"), ErrorCodeValidation, ""},
		{"not postgres", stderrs.New("eof"), ErrorCodeDB, ""},
	}
	for _, c := range cases {
		err := FromPostgresWithField(c.err, "cache asset")
		e, ok := As(err)
		if !ok || e.Code() != c.code || e.Field() != c.want {
			t.Fatalf("%s: got %v field %q", c.name, err, e.Field())
		}
	}
}
