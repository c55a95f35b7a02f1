// Package filestore stores resume binaries in Cloudinary and hands back
// stable references. Core code never touches the bytes after upload.
package filestore

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrNotConfigured indicates Cloudinary credentials are missing
	ErrNotConfigured = errors.New("file store is not configured")
	// ErrUploadFailed indicates the remote upload was rejected
	ErrUploadFailed = errors.New("file store upload failed")
	// ErrDeleteFailed indicates the remote delete was rejected
	ErrDeleteFailed = errors.New("file store delete failed")
)

// Reference identifies an uploaded file in the store.
type Reference struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Store uploads and deletes resume files.
type Store interface {
	Upload(ctx context.Context, publicID, format string, data []byte) (*Reference, error)
	Delete(ctx context.Context, publicID string) error
}

// Cloudinary implements Store against the Cloudinary raw upload API with
// signed requests.
type Cloudinary struct {
	client    *resty.Client
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
}

// NewCloudinary creates a Cloudinary store. An empty cloud name leaves the
// store unconfigured; operations then fail with ErrNotConfigured.
func NewCloudinary(cloudName, apiKey, apiSecret string) *Cloudinary {
	client := resty.New().
		SetBaseURL("https://api.cloudinary.com/v1_1/" + cloudName).
		SetTimeout(30 * time.Second)
	return &Cloudinary{
		client:    client,
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		folder:    "resumes",
	}
}

func (c *Cloudinary) configured() bool {
	return c.cloudName != "" && c.apiKey != "" && c.apiSecret != ""
}

// Upload pushes a raw file and returns its reference.
func (c *Cloudinary) Upload(ctx context.Context, publicID, format string, data []byte) (*Reference, error) {
	if !c.configured() {
		return nil, ErrNotConfigured
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"folder":    c.folder,
		"format":    format,
		"public_id": publicID,
		"timestamp": timestamp,
	}

	var result struct {
		SecureURL string `json:"secure_url"`
		PublicID  string `json:"public_id"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(params).
		SetFormData(map[string]string{
			"api_key":   c.apiKey,
			"signature": c.sign(params),
		}).
		SetFileReader("file", publicID+"."+format, bytes.NewReader(data)).
		SetResult(&result).
		SetError(&result).
		Post("/raw/upload")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrUploadFailed, result.Error.Message)
	}

	return &Reference{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

// Delete removes a previously uploaded file by its public ID.
func (c *Cloudinary) Delete(ctx context.Context, publicID string) error {
	if !c.configured() {
		return ErrNotConfigured
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}

	var result struct {
		Result string `json:"result"`
		Error  struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(params).
		SetFormData(map[string]string{
			"api_key":   c.apiKey,
			"signature": c.sign(params),
		}).
		SetResult(&result).
		SetError(&result).
		Post("/raw/destroy")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	if resp.IsError() || (result.Result != "ok" && result.Result != "not found") {
		return fmt.Errorf("%w: %s", ErrDeleteFailed, result.Error.Message)
	}
	return nil
}

// DeliveryURL returns the public raw-delivery URL for a stored file.
func (c *Cloudinary) DeliveryURL(publicID string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/raw/upload/%s", c.cloudName, publicID)
}

// sign computes the Cloudinary request signature: the SHA-1 hex digest of
// the sorted key=value pairs joined by & with the API secret appended.
func (c *Cloudinary) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}
