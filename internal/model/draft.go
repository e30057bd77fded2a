package model

import (
	"time"

	"github.com/google/uuid"
)

// DraftStore is an unpublished store created during onboarding. It is
// addressed by an opaque token and expires after a fixed TTL.
type DraftStore struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	DraftToken string         `json:"draftToken" db:"draft_token"`
	Slug       string         `json:"slug" db:"slug"`
	Config     map[string]any `json:"config" db:"config"`
	ExpiresAt  time.Time      `json:"expiresAt" db:"expires_at"`
	CreatedAt  time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time      `json:"updatedAt" db:"updated_at"`
}

// Expired reports whether the draft is past its expiry at now.
func (d *DraftStore) Expired(now time.Time) bool {
	return !d.ExpiresAt.After(now)
}

// CreateDraftStoreRequest is the payload for creating a draft store.
type CreateDraftStoreRequest struct {
	Slug string `json:"slug"`
}

// UpdateDraftStoreRequest is the payload for updating a draft's config.
type UpdateDraftStoreRequest struct {
	DraftToken string         `json:"draftToken"`
	Config     map[string]any `json:"config"`
}

// DraftStoreResponse is returned by all draft store endpoints.
type DraftStoreResponse struct {
	Success    bool        `json:"success"`
	DraftToken string      `json:"draftToken,omitempty"`
	Draft      *DraftStore `json:"draft,omitempty"`
	Error      string      `json:"error,omitempty"`
	Code       string      `json:"code,omitempty"`
}

// SlugCheckRequest is the payload for checking slug availability.
type SlugCheckRequest struct {
	Slug string `json:"slug"`
}

// SlugCheckResponse reports whether a slug can be claimed.
type SlugCheckResponse struct {
	OK         bool   `json:"ok"`
	Normalized string `json:"normalized"`
	Available  bool   `json:"available"`
	Reason     string `json:"reason,omitempty"`
}
