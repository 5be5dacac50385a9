// Package tally posts purchase vouchers to an external Tally accounting
// endpoint as application/xml and reports the outcome. Posting is
// best-effort: callers persist their own records first and record the
// posting result afterwards, never rolling back on failure.
package tally

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Client posts vouchers to a configured accounting endpoint. The endpoint
// URL is injected at construction, never read from the environment at call
// time.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger

	// Optional archive of raw request/response documents.
	minioClient *minio.Client
	bucket      string
}

// NewClient creates a voucher export client.
func NewClient(endpoint string, logger *zap.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// SetArchive enables archiving of request and response documents to object
// storage.
func (c *Client) SetArchive(mc *minio.Client, bucket string) {
	c.minioClient = mc
	c.bucket = bucket
}

// PostResult is the outcome of a voucher posting attempt.
type PostResult struct {
	Success     bool   `json:"success"`
	RawResponse string `json:"raw_response"`
}

// PostVoucher builds the XML envelope and POSTs it to the accounting
// endpoint. Success is inferred from the response body: a <CREATED> marker
// or the absence of an <ERROR> marker (the endpoint does not speak a
// schema-validated protocol).
func (c *Client) PostVoucher(ctx context.Context, v *Voucher) (*PostResult, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("tally endpoint is not configured")
	}

	payload, err := BuildVoucherXML(v)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create voucher request: %w", err)
	}
	req.Header.Set("Content-Type", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post voucher to tally: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tally response: %w", err)
	}

	body := string(raw)
	result := &PostResult{
		Success:     strings.Contains(body, "<CREATED>") || !strings.Contains(body, "<ERROR>"),
		RawResponse: body,
	}

	c.archive(ctx, v.GUID, payload, raw)

	return result, nil
}

// archive stores the raw documents in object storage when configured.
// Failures are logged and swallowed; archival must never fail a posting.
func (c *Client) archive(ctx context.Context, guid string, request, response []byte) {
	if c.minioClient == nil {
		return
	}
	for name, doc := range map[string][]byte{
		fmt.Sprintf("vouchers/%s-request.xml", guid):  request,
		fmt.Sprintf("vouchers/%s-response.xml", guid): response,
	} {
		_, err := c.minioClient.PutObject(ctx, c.bucket, name,
			bytes.NewReader(doc), int64(len(doc)),
			minio.PutObjectOptions{ContentType: "application/xml"})
		if err != nil && c.logger != nil {
			c.logger.Warn("failed to archive voucher document",
				zap.String("object", name), zap.Error(err))
		}
	}
}
