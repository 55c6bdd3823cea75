package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/example/material-reserve/internal/persistence"
)

// LinkRepository captures the persistence operations needed by the link service.
type LinkRepository interface {
	CreateLink(ctx context.Context, link Link) (Link, error)
	GetLink(ctx context.Context, id string) (Link, error)
	UpdateLink(ctx context.Context, link Link) (Link, error)
	ListLinks(ctx context.Context) ([]Link, error)
	DeleteLink(ctx context.Context, id string) error
}

// LinkService manages the admin link catalog.
type LinkService struct {
	links       LinkRepository
	idGenerator func() string
	now         func() time.Time
}

// NewLinkService wires dependencies for the link service.
func NewLinkService(links LinkRepository, idGenerator func() string, now func() time.Time) *LinkService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &LinkService{links: links, idGenerator: idGenerator, now: now}
}

// CreateLink validates input and persists a new link for administrators.
func (s *LinkService) CreateLink(ctx context.Context, principal Principal, input LinkInput) (Link, error) {
	if s == nil {
		return Link{}, fmt.Errorf("LinkService is nil")
	}
	if !principal.IsAdmin {
		return Link{}, ErrUnauthorized
	}

	normalized := normalizeLinkInput(input)
	if vErr := validateLinkInput(normalized); vErr.HasErrors() {
		return Link{}, vErr
	}

	link := Link{
		ID:          s.idGenerator(),
		Name:        normalized.Name,
		URL:         normalized.URL,
		Description: normalized.Description,
		CreatedAt:   s.now(),
	}
	link.UpdatedAt = link.CreatedAt

	if s.links == nil {
		return link, nil
	}

	persisted, err := s.links.CreateLink(ctx, link)
	if err != nil {
		return Link{}, mapCatalogRepoError(err)
	}
	return persisted, nil
}

// UpdateLink validates input and updates an existing link for administrators.
func (s *LinkService) UpdateLink(ctx context.Context, principal Principal, id string, input LinkInput) (Link, error) {
	if s == nil {
		return Link{}, fmt.Errorf("LinkService is nil")
	}
	if !principal.IsAdmin {
		return Link{}, ErrUnauthorized
	}
	if s.links == nil {
		return Link{}, fmt.Errorf("link repository not configured")
	}

	existing, err := s.links.GetLink(ctx, id)
	if err != nil {
		return Link{}, mapCatalogRepoError(err)
	}

	normalized := normalizeLinkInput(input)
	if vErr := validateLinkInput(normalized); vErr.HasErrors() {
		return Link{}, vErr
	}

	updated := existing
	updated.Name = normalized.Name
	updated.URL = normalized.URL
	updated.Description = normalized.Description
	updated.UpdatedAt = s.now()

	persisted, err := s.links.UpdateLink(ctx, updated)
	if err != nil {
		return Link{}, mapCatalogRepoError(err)
	}
	return persisted, nil
}

// GetLink returns a single link.
func (s *LinkService) GetLink(ctx context.Context, id string) (Link, error) {
	if s == nil {
		return Link{}, fmt.Errorf("LinkService is nil")
	}
	if s.links == nil {
		return Link{}, fmt.Errorf("link repository not configured")
	}

	link, err := s.links.GetLink(ctx, id)
	if err != nil {
		return Link{}, mapCatalogRepoError(err)
	}
	return link, nil
}

// ListLinks returns all links ordered by name.
func (s *LinkService) ListLinks(ctx context.Context) ([]Link, error) {
	if s == nil {
		return nil, fmt.Errorf("LinkService is nil")
	}
	if s.links == nil {
		return nil, nil
	}

	links, err := s.links.ListLinks(ctx)
	if err != nil {
		return nil, mapCatalogRepoError(err)
	}

	out := make([]Link, len(links))
	copy(out, links)
	sort.Slice(out, func(i, j int) bool {
		if strings.EqualFold(out[i].Name, out[j].Name) {
			return out[i].ID < out[j].ID
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// DeleteLink removes a link when requested by an administrator.
func (s *LinkService) DeleteLink(ctx context.Context, principal Principal, id string) error {
	if s == nil {
		return fmt.Errorf("LinkService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.links == nil {
		return fmt.Errorf("link repository not configured")
	}

	if err := s.links.DeleteLink(ctx, id); err != nil {
		return mapCatalogRepoError(err)
	}
	return nil
}

func normalizeLinkInput(input LinkInput) LinkInput {
	return LinkInput{
		Name:        strings.TrimSpace(input.Name),
		URL:         strings.TrimSpace(input.URL),
		Description: strings.TrimSpace(input.Description),
	}
}

func validateLinkInput(input LinkInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if input.URL == "" {
		vErr.add("url", "url is required")
	} else if _, err := url.ParseRequestURI(input.URL); err != nil {
		vErr.add("url", "must be a valid URL")
	}

	return vErr
}

func mapCatalogRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	}
	return err
}
