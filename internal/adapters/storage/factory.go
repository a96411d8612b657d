package storage

import (
	"context"
	"strings"
	"time"

	"ipvault/internal/platform/config"
	perr "ipvault/internal/platform/errors"
)

// GCSOptions configures a Cloud Storage bucket, only usable in gcp builds
type GCSOptions struct {
	Bucket string
	Prefix string
}

// Config carries the settings for every backend kind
type Config struct {
	IPFS    IPFSOptions
	Arweave ArweaveOptions
	S3      S3Options
	GCS     GCSOptions
	FSDir   string
}

// ConfigFromEnv reads backend settings under CORE_STORAGE_ style prefixes
// timeout is applied as the http client ceiling for gateway backends
func ConfigFromEnv(c config.Conf, timeout time.Duration) Config {
	ipfs := c.Prefix("IPFS_")
	ar := c.Prefix("ARWEAVE_")
	s3c := c.Prefix("S3_")
	gcs := c.Prefix("GCS_")
	return Config{
		IPFS: IPFSOptions{
			APIURL:     ipfs.MayURL("API_URL", ipfsAPIDefault),
			JWT:        ipfs.MayString("JWT", ""),
			GatewayURL: ipfs.MayURL("GATEWAY_URL", ipfsGatewayDefault),
			Timeout:    timeout,
		},
		Arweave: ArweaveOptions{
			UploadURL:  ar.MayURL("UPLOAD_URL", ""),
			APIKey:     ar.MayString("API_KEY", ""),
			GatewayURL: ar.MayURL("GATEWAY_URL", arweaveGatewayDefault),
			Timeout:    timeout,
		},
		S3: S3Options{
			Bucket:          s3c.MayString("BUCKET", ""),
			Region:          s3c.MayString("REGION", ""),
			Endpoint:        s3c.MayURL("ENDPOINT", ""),
			Prefix:          s3c.MayString("PREFIX", ""),
			PublicURL:       s3c.MayURL("PUBLIC_URL", ""),
			AccessKeyID:     s3c.MayString("ACCESS_KEY_ID", ""),
			SecretAccessKey: s3c.MayString("SECRET_ACCESS_KEY", ""),
		},
		GCS: GCSOptions{
			Bucket: gcs.MayString("BUCKET", ""),
			Prefix: gcs.MayString("PREFIX", ""),
		},
		FSDir: c.Prefix("FS_").MayString("DIR", "data/blobs"),
	}
}

// ParseKind normalizes a kind string; empty means none
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case "":
		return KindNone, nil
	case KindIPFS, KindArweave, KindS3, KindGCS, KindFS, KindNone:
		return k, nil
	default:
		return "", perr.InvalidArgf("unsupported storage kind %q", s)
	}
}

// Open builds the backend for kind; KindNone yields a nil backend and no error
func Open(ctx context.Context, kind Kind, cfg Config) (Backend, error) {
	switch kind {
	case KindNone, "":
		return nil, nil
	case KindIPFS:
		return NewIPFS(cfg.IPFS), nil
	case KindArweave:
		b, err := NewArweave(cfg.Arweave)
		if err != nil {
			return nil, err
		}
		return b, nil
	case KindS3:
		b, err := NewS3(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return b, nil
	case KindGCS:
		return openGCS(ctx, cfg.GCS)
	case KindFS:
		b, err := NewFS(cfg.FSDir)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, perr.InvalidArgf("unsupported storage kind %q", kind)
	}
}
