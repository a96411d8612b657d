// Package bind decodes and validates request payloads
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"unicode"

	perr "ipvault/internal/platform/errors"
	"ipvault/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// MaxJSONBytes caps a JSON body, sized for a full text trigger plus escaping
const MaxJSONBytes int64 = 4 << 20

// Validator bundles the shared validator with its english translator
type Validator struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	once sync.Once
	svc  *Validator
)

// Get returns the shared validator, building it on first use
func Get() *Validator {
	once.Do(func() {
		loc := en.New()
		trans, _ := ut.New(loc, loc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		message(v, trans, "min", "{0} must be at least {1}")
		message(v, trans, "max", "{0} must be at most {1}")
		message(v, trans, "eth_addr", "{0} must be a valid Ethereum address")
		_ = v.RegisterValidation("asset_tag", assetTag)
		message(v, trans, "asset_tag", "{0} must be a single tag without commas or padding")

		svc = &Validator{Validator: v, Translator: trans}
	})
	return svc
}

// Options tunes ParseJSON
type Options struct {
	MaxBytes   int64
	AllowEmpty bool
}

// ParseJSON decodes one JSON value into T and validates it
// unknown fields and trailing data are rejected
func ParseJSON[T any](r *http.Request, opts ...Options) (T, error) {
	var zero T
	o := Options{MaxBytes: MaxJSONBytes}
	if len(opts) > 0 {
		o = opts[0]
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.C(r.Context()).Warn().Err(err).Msg("request body close failed")
		}
	}()

	var body io.Reader = r.Body
	if o.MaxBytes > 0 {
		body = http.MaxBytesReader(nil, r.Body, o.MaxBytes)
	}
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	var dst T
	if err := dec.Decode(&dst); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			if o.AllowEmpty || bodyless(r.Method) {
				return dst, nil
			}
			return zero, perr.JSONErrf("empty body")
		case errors.As(err, &tooBig):
			return zero, perr.JSONErrf("body exceeds %d bytes", tooBig.Limit)
		default:
			return zero, perr.JSONErrf("invalid JSON: %v", err)
		}
	}
	if dec.More() {
		return zero, perr.JSONErrf("unexpected trailing data")
	}

	if err := Get().Validator.Struct(dst); err != nil {
		var inv *validator.InvalidValidationError
		if errors.As(err, &inv) {
			logger.C(r.Context()).Error().Err(inv).Msg("validator rejected payload type")
			return zero, perr.JSONErrf("validation error")
		}
		field, msg := ValidationFieldAndMessage(err)
		return zero, perr.WithField(perr.Validationf("%s", msg), field)
	}
	return dst, nil
}

// ValidationFieldAndMessage returns the first failing field and its translated message
func ValidationFieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(Get().Translator)
	}
	return "", err.Error()
}

func bodyless(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodDelete, http.MethodOptions:
		return true
	}
	return false
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func assetTag(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || strings.TrimSpace(s) != s || strings.ContainsRune(s, ',') {
		return false
	}
	return strings.IndexFunc(s, unicode.IsControl) < 0
}

func message(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}
