// Package project persists editor projects and their assets.
//
// A Store keeps projects in SQLite, a Server exposes the store over HTTP and
// a Client talks to a Server. Project content is opaque JSON; SaveTree and
// LoadTree encode an element tree with utopia.MarshalTree.
package project

import (
	"encoding/json"
	"errors"
	"time"
)

// Errors returned by the store and the client.
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrAssetNotFound   = errors.New("asset not found")
	ErrForbidden       = errors.New("project owned by another user")
	ErrInvalidName     = errors.New("invalid asset name")

	ErrThumbnailNotFound = errors.New("thumbnail not found")
	ErrEmptyThumbnail    = errors.New("empty thumbnail")
)

// Load response kinds.
const (
	KindProjectLoaded    = "ProjectLoaded"
	KindProjectUnchanged = "ProjectUnchanged"
)

// TimeLayout is the wire format of CreatedAt and ModifiedAt.
const TimeLayout = time.RFC3339Nano

// Project is a stored project.
type Project struct {
	ID         string          `json:"id"`
	OwnerID    string          `json:"ownerId"`
	Title      string          `json:"title"`
	CreatedAt  time.Time       `json:"createdAt"`
	ModifiedAt time.Time       `json:"modifiedAt"`
	Content    json.RawMessage `json:"content"`
}

// ProjectSummary is a project without its content, as listed on the
// projects page. DeletedAt is set for projects in the trash.
type ProjectSummary struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"ownerId"`
	Title      string     `json:"title"`
	CreatedAt  time.Time  `json:"createdAt"`
	ModifiedAt time.Time  `json:"modifiedAt"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty"`
}

// ListResponse is the body of a project listing.
type ListResponse struct {
	Projects []ProjectSummary `json:"projects"`
}

// LoadResponse is the answer to a load request: either the full project
// (Type KindProjectLoaded) or just its id when the caller's copy is current
// (Type KindProjectUnchanged).
type LoadResponse struct {
	Type       string          `json:"type"`
	ID         string          `json:"id"`
	OwnerID    string          `json:"ownerId,omitempty"`
	Title      string          `json:"title,omitempty"`
	CreatedAt  string          `json:"createdAt,omitempty"`
	ModifiedAt string          `json:"modifiedAt,omitempty"`
	Content    json.RawMessage `json:"content,omitempty"`
}

// Unchanged reports whether the response carries no content.
func (r LoadResponse) Unchanged() bool {
	return r.Type == KindProjectUnchanged
}

func loadedResponse(p Project) LoadResponse {
	return LoadResponse{
		Type:       KindProjectLoaded,
		ID:         p.ID,
		OwnerID:    p.OwnerID,
		Title:      p.Title,
		CreatedAt:  p.CreatedAt.UTC().Format(TimeLayout),
		ModifiedAt: p.ModifiedAt.UTC().Format(TimeLayout),
		Content:    p.Content,
	}
}

// SaveRequest is the body of a save. A nil Name or Content leaves the stored
// value as it is.
type SaveRequest struct {
	Name    *string         `json:"name"`
	Content json.RawMessage `json:"content"`
}

// SaveResponse identifies a saved project.
type SaveResponse struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
}

// CreateResponse carries a freshly allocated project id.
type CreateResponse struct {
	ID string `json:"id"`
}

// Image is a project thumbnail.
type Image struct {
	ContentType string
	Data        []byte
}

// Asset is a stored project file.
type Asset struct {
	ProjectID   string
	FileName    string
	ContentType string
	Data        []byte
}
