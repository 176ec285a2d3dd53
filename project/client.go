package project

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/laogong5i0-2/utopia"
)

// Client talks to a project Server.
type Client struct {
	baseURL string
	owner   string
	http    *http.Client
}

// NewClient creates a client for the server at baseURL acting as owner. An
// empty owner sends no OwnerHeader.
func NewClient(baseURL, owner string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		owner:   owner,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(h *http.Client) {
	if h != nil {
		c.http = h
	}
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.owner != "" {
		req.Header.Set(OwnerHeader, c.owner)
	}
	return c.http.Do(req)
}

// statusError converts a non-2xx response into an error wrapping the
// matching sentinel.
func statusError(op string, resp *http.Response, notFound error) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	detail := strings.TrimSpace(string(msg))
	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, notFound)
	case http.StatusForbidden:
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	case http.StatusBadRequest:
		return fmt.Errorf("%s: bad request: %s", op, detail)
	}
	return fmt.Errorf("%s: server responded with %d %s", op, resp.StatusCode, detail)
}

// CreateProjectID asks the server for a fresh project id.
func (c *Client) CreateProjectID(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/v1/projectid", nil, "")
	if err != nil {
		return "", fmt.Errorf("create project id: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return "", statusError("create project id", resp, ErrProjectNotFound)
	}
	var out CreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("create project id: %w", err)
	}
	return out.ID, nil
}

// LoadProject fetches project id. When lastSaved equals the stored
// modification time the response is KindProjectUnchanged and carries no
// content.
func (c *Client) LoadProject(ctx context.Context, id, lastSaved string) (LoadResponse, error) {
	path := "/v1/project/" + url.PathEscape(id)
	if lastSaved != "" {
		path += "?last_saved=" + url.QueryEscape(lastSaved)
	}
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return LoadResponse{}, fmt.Errorf("load project %s: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return LoadResponse{}, statusError("load project "+id, resp, ErrProjectNotFound)
	}
	var out LoadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return LoadResponse{}, fmt.Errorf("load project %s: %w", id, err)
	}
	return out, nil
}

// UpdateSavedProject saves content (nil keeps the stored content) under
// name.
func (c *Client) UpdateSavedProject(ctx context.Context, id string, content json.RawMessage, name string) (SaveResponse, error) {
	body, err := json.Marshal(SaveRequest{Name: &name, Content: content})
	if err != nil {
		return SaveResponse{}, fmt.Errorf("save project %s: %w", id, err)
	}
	resp, err := c.do(ctx, http.MethodPut, "/v1/project/"+url.PathEscape(id), bytes.NewReader(body), "application/json")
	if err != nil {
		return SaveResponse{}, fmt.Errorf("save project %s: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return SaveResponse{}, statusError("save project "+id, resp, ErrProjectNotFound)
	}
	var out SaveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return SaveResponse{}, fmt.Errorf("save project %s: %w", id, err)
	}
	return out, nil
}

// SaveTree saves tree as the content of project id.
func (c *Client) SaveTree(ctx context.Context, id, name string, tree utopia.ElementTree) (SaveResponse, error) {
	data, err := utopia.MarshalTree(tree)
	if err != nil {
		return SaveResponse{}, fmt.Errorf("save project %s: %w", id, err)
	}
	return c.UpdateSavedProject(ctx, id, data, name)
}

// LoadTree loads project id and decodes its content as an element tree.
func (c *Client) LoadTree(ctx context.Context, id string) (utopia.ElementTree, error) {
	resp, err := c.LoadProject(ctx, id, "")
	if err != nil {
		return utopia.ElementTree{}, err
	}
	if len(resp.Content) == 0 {
		return utopia.ElementTree{}, fmt.Errorf("load project %s: no content", id)
	}
	return utopia.UnmarshalTree(resp.Content)
}

// ListProjects lists the caller's projects, or the trash when deleted is
// set.
func (c *Client) ListProjects(ctx context.Context, deleted bool) ([]ProjectSummary, error) {
	path := "/v1/projects"
	if deleted {
		path += "?deleted=true"
	}
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("list projects", resp, ErrProjectNotFound)
	}
	var out ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out.Projects, nil
}

// DeleteProject moves project id to the trash.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.lifecycle(ctx, "delete project", http.MethodDelete, id, "")
}

// RestoreProject takes project id out of the trash.
func (c *Client) RestoreProject(ctx context.Context, id string) error {
	return c.lifecycle(ctx, "restore project", http.MethodPost, id, "/restore")
}

// DestroyProject permanently removes project id from the trash.
func (c *Client) DestroyProject(ctx context.Context, id string) error {
	return c.lifecycle(ctx, "destroy project", http.MethodPost, id, "/destroy")
}

func (c *Client) lifecycle(ctx context.Context, op, method, id, suffix string) error {
	resp, err := c.do(ctx, method, "/v1/project/"+url.PathEscape(id)+suffix, nil, "")
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return statusError(op+" "+id, resp, ErrProjectNotFound)
	}
	return nil
}

// SaveThumbnail uploads the preview image of project id.
func (c *Client) SaveThumbnail(ctx context.Context, id string, img Image) error {
	contentType := img.ContentType
	if contentType == "" {
		contentType = "image/png"
	}
	resp, err := c.do(ctx, http.MethodPost, "/v1/thumbnail/"+url.PathEscape(id), bytes.NewReader(img.Data), contentType)
	if err != nil {
		return fmt.Errorf("save thumbnail %s: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return statusError("save thumbnail "+id, resp, ErrProjectNotFound)
	}
	return nil
}

// Thumbnail downloads the preview image of project id.
func (c *Client) Thumbnail(ctx context.Context, id string) (Image, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/thumbnail/"+url.PathEscape(id), nil, "")
	if err != nil {
		return Image{}, fmt.Errorf("thumbnail %s: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Image{}, statusError("thumbnail "+id, resp, ErrThumbnailNotFound)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Image{}, fmt.Errorf("thumbnail %s: %w", id, err)
	}
	return Image{ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}

func assetPath(id, fileName string) string {
	return "/v1/asset/" + url.PathEscape(id) + "/" + url.PathEscape(fileName)
}

// UploadAsset stores data as fileName of project id.
func (c *Client) UploadAsset(ctx context.Context, id, fileName, contentType string, data []byte) error {
	resp, err := c.do(ctx, http.MethodPost, assetPath(id, fileName), bytes.NewReader(data), contentType)
	if err != nil {
		return fmt.Errorf("upload asset %s: %w", fileName, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return statusError("upload asset "+fileName, resp, ErrProjectNotFound)
	}
	return nil
}

// DownloadAsset fetches fileName of project id.
func (c *Client) DownloadAsset(ctx context.Context, id, fileName string) (Asset, error) {
	resp, err := c.do(ctx, http.MethodGet, assetPath(id, fileName), nil, "")
	if err != nil {
		return Asset{}, fmt.Errorf("download asset %s: %w", fileName, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Asset{}, statusError("download asset "+fileName, resp, ErrAssetNotFound)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Asset{}, fmt.Errorf("download asset %s: %w", fileName, err)
	}
	return Asset{ProjectID: id, FileName: fileName, ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}

// RenameAsset renames oldName to newName.
func (c *Client) RenameAsset(ctx context.Context, id, oldName, newName string) error {
	path := assetPath(id, newName) + "?old_file_name=" + url.QueryEscape(oldName)
	resp, err := c.do(ctx, http.MethodPut, path, nil, "")
	if err != nil {
		return fmt.Errorf("rename asset %s: %w", oldName, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return statusError("rename asset "+oldName, resp, ErrAssetNotFound)
	}
	return nil
}

// DeleteAsset removes fileName of project id.
func (c *Client) DeleteAsset(ctx context.Context, id, fileName string) error {
	resp, err := c.do(ctx, http.MethodDelete, assetPath(id, fileName), nil, "")
	if err != nil {
		return fmt.Errorf("delete asset %s: %w", fileName, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return statusError("delete asset "+fileName, resp, ErrAssetNotFound)
	}
	return nil
}
