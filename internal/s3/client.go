package s3

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"VelRecover/internal/recovery"
)

type Options struct {
	Endpoint           string
	Region             string
	AccessKey          string
	SecretKey          string
	Bucket             string
	PathStyle          bool
	InsecureSkipVerify bool
}

type Client struct {
	client *s3.Client
	bucket string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}
	endpointURL, err := url.Parse(strings.TrimSpace(opts.Endpoint))
	if err != nil {
		return nil, fmt.Errorf("s3 endpoint: %w", err)
	}
	if endpointURL.Scheme == "" {
		endpointURL.Scheme = "https"
		endpointURL, _ = url.Parse(endpointURL.String())
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:               endpointURL.String(),
			SigningRegion:     opts.Region,
			HostnameImmutable: true,
		}, nil
	})

	cfg := aws.Config{
		Region:                      opts.Region,
		EndpointResolverWithOptions: resolver,
		Credentials:                 credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
	}

	httpClient := http.DefaultClient
	if opts.InsecureSkipVerify {
		httpClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		}
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = opts.PathStyle
		o.HTTPClient = httpClient
	})

	return &Client{
		client: client,
		bucket: opts.Bucket,
	}, nil
}

func (c *Client) Bucket() string {
	return c.bucket
}

// ListVersions fetches one page of the bucket's version history for
// prefix. The cursor threads the service's key/version markers between
// calls; the zero cursor starts from the beginning. Delete markers are
// not version records and are not returned.
func (c *Client) ListVersions(ctx context.Context, prefix string, cursor recovery.Cursor, maxKeys int32) (recovery.Page, error) {
	input := &s3.ListObjectVersionsInput{
		Bucket:  aws.String(c.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(maxKeys),
	}
	if cursor.KeyMarker != "" {
		input.KeyMarker = aws.String(cursor.KeyMarker)
	}
	if cursor.VersionIDMarker != "" {
		input.VersionIdMarker = aws.String(cursor.VersionIDMarker)
	}

	out, err := c.client.ListObjectVersions(ctx, input)
	if err != nil {
		return recovery.Page{}, err
	}

	page := recovery.Page{
		Versions:  make([]recovery.Version, 0, len(out.Versions)),
		Truncated: aws.ToBool(out.IsTruncated),
	}
	for _, v := range out.Versions {
		if v.Key == nil || v.VersionId == nil || v.LastModified == nil {
			continue
		}
		page.Versions = append(page.Versions, recovery.Version{
			Key:        *v.Key,
			VersionID:  *v.VersionId,
			ModifiedAt: v.LastModified.UTC(),
		})
	}
	if page.Truncated {
		page.Next = recovery.Cursor{
			KeyMarker:       aws.ToString(out.NextKeyMarker),
			VersionIDMarker: aws.ToString(out.NextVersionIdMarker),
		}
	}
	return page, nil
}

// RestoreVersion copies a historical version of key onto itself, making it
// the new current version. Additive: intervening versions are kept.
func (c *Client) RestoreVersion(ctx context.Context, key, versionID string) error {
	_, err := c.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(c.bucket),
		Key:        aws.String(key),
		CopySource: aws.String(copySource(c.bucket, key, versionID)),
	})
	return err
}

func copySource(bucket, key, versionID string) string {
	src := url.QueryEscape(bucket + "/" + key)
	if versionID != "" {
		src += "?versionId=" + versionID
	}
	return src
}

// DeleteObject removes the current version of key. In a versioned bucket
// this places a delete marker and leaves the history untouched.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (c *Client) PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(contentLength),
	})
	return err
}

// HeadObject returns the object's last-modified time, or nil when the key
// does not exist.
func (c *Client) HeadObject(ctx context.Context, key string) (*time.Time, error) {
	out, err := c.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, nil
		}
		return nil, err
	}
	if out.LastModified == nil {
		now := time.Now().UTC()
		return &now, nil
	}
	t := out.LastModified.UTC()
	return &t, nil
}

// BucketVersioning reports the bucket's versioning status ("Enabled",
// "Suspended", or "" when never enabled).
func (c *Client) BucketVersioning(ctx context.Context) (string, error) {
	out, err := c.client.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		return "", err
	}
	return string(out.Status), nil
}
