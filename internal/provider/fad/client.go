package fad

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

const defaultBaseURL = "https://firebaseappdistribution.googleapis.com"

// newClient constructs a release distribution client
func newClient(baseURL, projectID string, source bearer.TokenSource) *client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &client{
		client:    httpclient.NewClient(nil, bearer.NewAuthorizer(source)),
		plain:     httpclient.NewClient(nil),
		url:       baseURL,
		projectID: projectID,
	}
}

type client struct {
	client    *httpclient.Client
	plain     *httpclient.Client
	url       string
	projectID string
}

// appInfo represents an app from the distribution API
type appInfo struct {
	Name        string `json:"name"`
	AppID       string `json:"appId"`
	DisplayName string `json:"displayName"`
	Platform    string `json:"platform"`
	BundleID    string `json:"bundleId"`
	PackageName string `json:"packageName"`
}

// release represents a distributed build from the distribution API
type release struct {
	Name              string `json:"name"`
	DisplayVersion    string `json:"displayVersion"`
	BuildVersion      string `json:"buildVersion"`
	CreateTime        string `json:"createTime"`
	FileSize          string `json:"fileSize,omitempty"`
	BinaryDownloadURI string `json:"binaryDownloadUri"`
}

type appListResponse struct {
	Apps          []appInfo `json:"apps"`
	NextPageToken string    `json:"nextPageToken"`
}

type releaseListResponse struct {
	Releases      []release `json:"releases"`
	NextPageToken string    `json:"nextPageToken"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *client) listApps(ctx context.Context, pageToken string) (*appListResponse, error) {
	q := url.Values{}
	q.Set("pageSize", "100")
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}
	reqURL := fmt.Sprintf("%s/v1/projects/%s/apps?%s", c.url, url.PathEscape(c.projectID), q.Encode())
	var out appListResponse
	if err := c.getJSON(ctx, reqURL, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) getApp(ctx context.Context, appID string) (*appInfo, error) {
	reqURL := fmt.Sprintf("%s/v1/projects/%s/apps/%s", c.url, url.PathEscape(c.projectID), url.PathEscape(appID))
	var out appInfo
	if err := c.getJSON(ctx, reqURL, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// listReleases fetches one page of an app's releases, newest first.
func (c *client) listReleases(ctx context.Context, appID string, pageSize int, pageToken string) (*releaseListResponse, error) {
	q := url.Values{}
	q.Set("pageSize", strconv.Itoa(pageSize))
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}
	reqURL := fmt.Sprintf("%s/v1/projects/%s/apps/%s/releases?%s",
		c.url, url.PathEscape(c.projectID), url.PathEscape(appID), q.Encode())
	var out releaseListResponse
	if err := c.getJSON(ctx, reqURL, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// getRelease re-reads one release by its resource name. The download
// URI in the response is freshly signed and short-lived.
func (c *client) getRelease(ctx context.Context, name string) (*release, error) {
	reqURL := fmt.Sprintf("%s/v1/%s", c.url, name)
	var out release
	if err := c.getJSON(ctx, reqURL, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// download streams the signed binary URI into dst. Signed URIs must
// not carry the API's Authorization header.
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
		return errors.FromStatus(providerName, resp.StatusCode, apiErrorMessage(resp.Body))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// apiErrorMessage extracts the error message from a failure body, best
// effort.
func apiErrorMessage(body io.Reader) string {
	var out errorResponse
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		return ""
	}
	return out.Error.Message
}
