//go:build !gcp

package storage

import (
	"context"

	perr "ipvault/internal/platform/errors"
)

func openGCS(context.Context, GCSOptions) (Backend, error) {
	return nil, perr.InvalidArgf("gcs storage is not enabled in this build (use -tags gcp)")
}
