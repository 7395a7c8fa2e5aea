package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"sales-observer/src/helpers"
	"sales-observer/src/logger"
	"sales-observer/src/models"
)

// maxBodyBytes bounds a single download.
const maxBodyBytes = 256 << 20

type NetworkManager struct {
	Config    models.MNetworkConfig
	Client    *http.Client
	Logger    *logger.Logger
	UserAgent string
}

// -----------------------------------------------------------------------------

func NewNetworkManager(cfg models.MNetworkConfig, log *logger.Logger) (*NetworkManager, error) {
	nm := &NetworkManager{
		Config:    cfg,
		Logger:    log,
		UserAgent: cfg.UserAgent,
	}
	if nm.UserAgent == "" {
		nm.UserAgent = "sales-observer"
	}

	client, err := nm.createClient()
	if err != nil {
		return nil, err
	}
	nm.Client = client
	return nm, nil
}

// -----------------------------------------------------------------------------

func (nm *NetworkManager) createClient() (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if nm.Config.Proxy != "" {
		proxyURL, err := url.Parse(nm.Config.Proxy)
		if err != nil {
			return nil, helpers.NewConfigurationError(err, "invalid proxy url %q", nm.Config.Proxy)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	timeout := time.Duration(nm.Config.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

// -----------------------------------------------------------------------------

func (nm *NetworkManager) buildURL(urlStr string, params map[string]string) (string, error) {
	reqUrl, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}

	q := reqUrl.Query()
	for k, v := range params {
		q.Add(k, v)
	}
	reqUrl.RawQuery = q.Encode()
	return reqUrl.String(), nil
}

// -----------------------------------------------------------------------------

// Get performs a single GET request. Any non-200 status is an error.
func (nm *NetworkManager) Get(ctx context.Context, urlStr string, params map[string]string) ([]byte, error) {
	finalUrl, err := nm.buildURL(urlStr, params)
	if err != nil {
		return nil, helpers.NewDataSourceError(err, "invalid url %q", urlStr)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalUrl, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", nm.UserAgent)

	resp, err := nm.Client.Do(req)
	if err != nil {
		return nil, helpers.NewDataSourceError(err, "request to %s failed", urlStr)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, helpers.NewDataSourceError(nil, "bad status %d from %s", resp.StatusCode, urlStr)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, helpers.NewDataSourceError(err, "reading body from %s", urlStr)
	}
	if len(body) > maxBodyBytes {
		return nil, helpers.NewDataSourceError(nil, "body from %s exceeds %d bytes", urlStr, maxBodyBytes)
	}

	nm.Logger.Debug("Downloaded %d bytes from %s", len(body), urlStr)
	return body, nil
}

// -----------------------------------------------------------------------------

// Head returns the ETag, or Last-Modified when no ETag is sent.
// An empty string means the server offers no validator.
func (nm *NetworkManager) Head(ctx context.Context, urlStr string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, urlStr, nil)
	if err != nil {
		return "", helpers.NewDataSourceError(err, "invalid url %q", urlStr)
	}
	req.Header.Set("User-Agent", nm.UserAgent)

	resp, err := nm.Client.Do(req)
	if err != nil {
		return "", helpers.NewDataSourceError(err, "request to %s failed", urlStr)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", helpers.NewDataSourceError(nil, "bad status %d from %s", resp.StatusCode, urlStr)
	}

	if etag := resp.Header.Get("ETag"); etag != "" {
		return fmt.Sprintf("etag:%s", etag), nil
	}
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		return fmt.Sprintf("last-modified:%s", lm), nil
	}
	return "", nil
}
