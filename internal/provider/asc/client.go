package asc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/appfetch/appfetch-cli/internal/httpclient"
	"github.com/appfetch/appfetch-cli/internal/httpclient/auth/bearer"
	"github.com/appfetch/appfetch-cli/util/common/errors"
)

const defaultBaseURL = "https://api.appstoreconnect.apple.com"

// newClient constructs a build registry client
func newClient(baseURL string, source bearer.TokenSource) *client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &client{
		client: httpclient.NewClient(nil, bearer.NewAuthorizer(source)),
		// Transfer locators are presigned; requests to them must not
		// carry the registry's Authorization header.
		plain: httpclient.NewClient(nil),
		url:   baseURL,
	}
}

type client struct {
	client *httpclient.Client
	plain  *httpclient.Client
	url    string
}

// appResource represents an app from the registry API
type appResource struct {
	ID         string `json:"id"`
	Attributes struct {
		Name     string `json:"name"`
		BundleID string `json:"bundleId"`
		Platform string `json:"platform"`
	} `json:"attributes"`
}

// artifactResource represents a build artifact from the registry API
type artifactResource struct {
	ID         string `json:"id"`
	Attributes struct {
		FileName     string `json:"fileName"`
		FileSize     int64  `json:"fileSize"`
		Version      string `json:"version"`
		UploadedDate string `json:"uploadedDate"`
		DownloadURL  string `json:"downloadUrl"`
	} `json:"attributes"`
}

type pageLinks struct {
	Next string `json:"next"`
}

type appListResponse struct {
	Data  []appResource `json:"data"`
	Links pageLinks     `json:"links"`
}

type artifactListResponse struct {
	Data  []artifactResource `json:"data"`
	Links pageLinks          `json:"links"`
}

type artifactDetailResponse struct {
	Data artifactResource `json:"data"`
}

type errorResponse struct {
	Errors []struct {
		Detail string `json:"detail"`
	} `json:"errors"`
}

func (c *client) listApps(ctx context.Context, pageURL string, limit int) (*appListResponse, error) {
	if pageURL == "" {
		pageURL = fmt.Sprintf("%s/v1/apps?limit=%d", c.url, limit)
	}
	var out appListResponse
	if err := c.getJSON(ctx, pageURL, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// listArtifacts fetches one page of an app's artifacts, newest first.
// pageURL is empty for the first page and the links.next value after.
func (c *client) listArtifacts(ctx context.Context, appID string, pageSize int, pageURL string) (*artifactListResponse, error) {
	if pageURL == "" {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(pageSize))
		q.Set("sort", "-uploadedDate")
		pageURL = fmt.Sprintf("%s/v1/apps/%s/buildArtifacts?%s", c.url, url.PathEscape(appID), q.Encode())
	}
	var out artifactListResponse
	if err := c.getJSON(ctx, pageURL, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// getArtifact fetches one artifact's detail, including the transient
// presigned download URL when the binary is still available.
func (c *client) getArtifact(ctx context.Context, id string) (*artifactResource, error) {
	reqURL := fmt.Sprintf("%s/v1/buildArtifacts/%s", c.url, url.PathEscape(id))
	var out artifactDetailResponse
	if err := c.getJSON(ctx, reqURL, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// download streams the presigned locator into dst.
func (c *client) download(ctx context.Context, locator string, dst io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.plain.Do(req)
	if err != nil {
		return 0, errors.Wrap(errors.ErrTransport, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, errors.FromStatus(providerName, resp.StatusCode, "")
	}
	return io.Copy(dst, resp.Body)
}

func (c *client) getJSON(ctx context.Context, reqURL string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, errors.ErrAuth) {
			return err
		}
		return errors.Wrap(errors.ErrTransport, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.FromStatus(providerName, resp.StatusCode, apiErrorDetail(resp.Body))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// apiErrorDetail extracts the first error detail from a failure body,
// best effort.
func apiErrorDetail(body io.Reader) string {
	var out errorResponse
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		return ""
	}
	if len(out.Errors) == 0 {
		return ""
	}
	return out.Errors[0].Detail
}
