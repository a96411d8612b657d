package errors

import (
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgCodes maps the SQLSTATEs the asset cache can raise, anything else is ErrorCodeDB
var pgCodes = map[string]ErrorCode{
	"23505": ErrorCodeDuplicateKey,    // unique_violation
	"23502": ErrorCodeValidation,      // not_null_violation
	"23514": ErrorCodeValidation,      // check_violation
	"22001": ErrorCodeInvalidArgument, // string_data_right_truncation
	"22P02": ErrorCodeInvalidArgument, // invalid_text_representation
	"25006": ErrorCodeUnavailable,     // read_only_sql_transaction
	"57P01": ErrorCodeUnavailable,     // admin_shutdown
	"57P03": ErrorCodeUnavailable,     // cannot_connect_now
}

// PgCode classifies a postgres error, false when err did not come from postgres
func PgCode(err error) (ErrorCode, bool) {
	var pgErr *pgconn.PgError
	if !stderrs.As(err, &pgErr) {
		return ErrorCodeUnknown, false
	}
	if c, ok := pgCodes[pgErr.Code]; ok {
		return c, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps err under msg with the code PgCode picks, nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := PgCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

// FromPostgresWithField is FromPostgres plus the offending column when postgres names one
func FromPostgresWithField(err error, msg string) error {
	out := FromPostgres(err, msg)
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		if f := pgField(pgErr); f != "" {
			return WithField(out, f)
		}
	}
	return out
}

// pgField prefers the column, then reads it off a <table>_<column>_<kind> constraint name
func pgField(e *pgconn.PgError) string {
	if col := strings.TrimSpace(e.ColumnName); col != "" {
		return col
	}
	name := strings.TrimPrefix(e.ConstraintName, e.TableName+"_")
	if name == "pkey" {
		return "id"
	}
	for _, kind := range []string{"_key", "_fkey", "_check"} {
		if f, ok := strings.CutSuffix(name, kind); ok {
			return f
		}
	}
	return ""
}
