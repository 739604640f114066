// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/offlinekit/offlinekit/internal/config"
	"github.com/offlinekit/offlinekit/internal/logger"
	"github.com/offlinekit/offlinekit/internal/utils"
	"github.com/offlinekit/offlinekit/models"
)

type httpRemoteAPI struct {
	client *utils.HTTPClient

	token string

	logger *logger.Logger
}

// NewHTTPRemoteAPI constructs the HTTP/REST implementation of [RemoteAPI].
// It normalises and validates the base URL from cfg.BaseURL and configures the
// underlying client with the resolved base URL and request timeout. When
// cfg.AuthToken is non-empty it is attached as a bearer token to every
// request; minting and refreshing tokens is the application's concern.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a valid URL.
func NewHTTPRemoteAPI(cfg config.API, log *logger.Logger) (RemoteAPI, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote API address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout)

	return &httpRemoteAPI{client: client, token: strings.TrimSpace(cfg.AuthToken), logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// FetchCatalogs implements [RemoteAPI]. It GETs /api/catalogs and decodes the
// JSON array of catalog records.
func (h *httpRemoteAPI) FetchCatalogs(ctx context.Context) ([]models.CachedRecord, error) {
	return h.fetchRecords(ctx, "/api/catalogs", nil)
}

// FetchSections implements [RemoteAPI]. It GETs /api/catalogs/{id}/sections —
// the full authoritative section set for one catalog, unpaginated.
func (h *httpRemoteAPI) FetchSections(ctx context.Context, catalogID string) ([]models.CachedRecord, error) {
	path := "/api/catalogs/" + url.PathEscape(catalogID) + "/sections"
	return h.fetchRecords(ctx, path, nil)
}

// FetchItems implements [RemoteAPI]. It GETs one page of
// /api/sections/{id}/items; the caller drives pagination and stops on a short
// page.
func (h *httpRemoteAPI) FetchItems(ctx context.Context, sectionID string, page, pageSize int) ([]models.CachedRecord, error) {
	path := "/api/sections/" + url.PathEscape(sectionID) + "/items"
	params := map[string]string{
		"page":      strconv.Itoa(page),
		"page_size": strconv.Itoa(pageSize),
	}
	return h.fetchRecords(ctx, path, params)
}

func (h *httpRemoteAPI) fetchRecords(ctx context.Context, path string, params map[string]string) ([]models.CachedRecord, error) {
	req := h.authedRequest(ctx)
	if params != nil {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", ErrNetwork, path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}

	var records []models.CachedRecord
	if err = json.Unmarshal(resp.Body(), &records); err != nil {
		return nil, fmt.Errorf("decode records from %s: %w", path, err)
	}

	return records, nil
}

// Deliver implements [RemoteAPI]. It replays op with its recorded method,
// endpoint and payload. The operation id travels as an Idempotency-Key header:
// delivery is at-least-once, and the key gives the server the handle to
// deduplicate a replay whose previous 2xx response was lost.
func (h *httpRemoteAPI) Deliver(ctx context.Context, op models.PendingOperation) error {
	req := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Idempotency-Key", op.ID)

	if len(op.Payload) > 0 {
		req.SetBody([]byte(op.Payload))
	}

	resp, err := req.Execute(strings.ToUpper(op.Method), op.Endpoint)
	if err != nil {
		return fmt.Errorf("%w: deliver %s %s: %w", ErrNetwork, op.Method, op.Endpoint, err)
	}

	if err = mapHTTPError(resp); err != nil {
		return fmt.Errorf("deliver %s %s: %w", op.Method, op.Endpoint, err)
	}

	return nil
}

func (h *httpRemoteAPI) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if h.token != "" {
		req.SetHeader("Authorization", "Bearer "+h.token)
	}
	return req
}
