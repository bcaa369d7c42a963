package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/KinoWerk/cinedash-go/internal/domain/entities/sites"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/logging"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/performance"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/persistence/localstate"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/upstream"
)

const siteStateKey = "site-selection"

// Key names carried in a site's configuration list.
const (
	siteKeyWordpressID  = "WordpressID"
	siteKeyWordpressURL = "WordpressURL"
)

// ErrNoLoadAttempted is returned by Retry when no load has happened yet.
var ErrNoLoadAttempted = errors.New("no site load has been attempted")

// SiteService is the site registry: it loads the locations reachable by the
// authenticated credential, tracks the active selection and mirrors both to
// the local state store. A monotonic version counter tells dependent views
// when a selected-site change requires a reload.
type SiteService struct {
	mu          sync.Mutex
	client      *upstream.Client
	store       *localstate.Store
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker

	lastKey   string
	selection sites.Selection
	version   uint64
	loadError string
}

// NewSiteService creates the site registry backed by the given store.
func NewSiteService(client *upstream.Client, store *localstate.Store, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SiteService {
	return &SiteService{
		client:      client,
		store:       store,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// Restore loads the persisted selection at startup; corruption reads as
// nothing stored.
func (s *SiteService) Restore() {
	var sel sites.Selection
	if !s.store.Load(siteStateKey, &sel) {
		return
	}

	s.mu.Lock()
	s.selection = sel
	s.mu.Unlock()

	s.logger.State().Info("Restored persisted site selection",
		"selectedSiteName", sel.SelectedSiteName, "sites", len(sel.Sites), "isAdmin", sel.IsAdmin)
}

// LoadSites fetches the site list reachable by the given credential. On
// success the selection is reconciled: an admin with no selection gets the
// synthetic all-sites entry, and a previously selected site that vanished
// from the new list falls back to the first returned site. On failure a
// human-readable error is recorded and the previous list is left untouched.
func (s *SiteService) LoadSites(ctx context.Context, apiKey string, isAdmin bool) error {
	start := time.Now()
	marker := s.perfTracker.StartOperation("state:load_sites")
	defer func() {
		marker.Complete()
		s.perfTracker.Record(marker)
	}()

	s.mu.Lock()
	s.lastKey = apiKey
	s.mu.Unlock()

	list, err := s.client.Sites(ctx, apiKey)
	if err != nil {
		s.mu.Lock()
		s.loadError = err.Error()
		s.mu.Unlock()

		s.logger.State().Warn("Site list load failed", "error", err.Error(), "duration", time.Since(start))
		marker.SetError(err)
		return err
	}

	if isAdmin {
		list = append([]sites.Site{sites.AllSites()}, list...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadError = ""
	s.selection.Sites = list
	s.selection.IsAdmin = isAdmin

	switch {
	case isAdmin && s.selection.SelectedSiteID == nil:
		s.selectLocked(sites.AllSitesID, sites.AllSitesName)
	case s.selection.SelectedSiteID == nil || !sites.Contains(list, *s.selection.SelectedSiteID):
		if len(list) > 0 {
			first := list[0]
			s.selectLocked(first.SiteID, first.Name)
		}
	default:
		s.persistLocked()
	}

	s.logger.State().Info("Site list loaded", "sites", len(list), "isAdmin", isAdmin, "duration", time.Since(start))
	marker.SetSuccess(true)
	return nil
}

// Retry replays the last attempted site load with the same credential.
func (s *SiteService) Retry(ctx context.Context) error {
	s.mu.Lock()
	key := s.lastKey
	isAdmin := s.selection.IsAdmin
	s.mu.Unlock()

	if key == "" {
		return ErrNoLoadAttempted
	}
	return s.LoadSites(ctx, key, isAdmin)
}

// SetSelectedSite updates the active selection, derives the linked
// WordPress configuration from the site's key list, and persists everything
// together. Changing the id (not just the name) bumps the version counter.
func (s *SiteService) SetSelectedSite(siteID int, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectLocked(siteID, name)
}

// selectLocked applies a selection; callers hold s.mu.
func (s *SiteService) selectLocked(siteID int, name string) {
	idChanged := s.selection.SelectedSiteID == nil || *s.selection.SelectedSiteID != siteID

	id := siteID
	s.selection.SelectedSiteID = &id
	s.selection.SelectedSiteName = name

	s.selection.WordpressID = ""
	s.selection.WordpressURL = ""
	for _, site := range s.selection.Sites {
		if site.SiteID != siteID {
			continue
		}
		if v, ok := site.Key(siteKeyWordpressID); ok {
			s.selection.WordpressID = v
		}
		if v, ok := site.Key(siteKeyWordpressURL); ok {
			s.selection.WordpressURL = v
		}
		break
	}

	if idChanged {
		s.version++
		s.logger.State().Info("Selected site changed", "siteId", siteID, "name", name, "version", s.version)
	}

	s.persistLocked()
}

// persistLocked mirrors the selection to the local state store; callers hold s.mu.
func (s *SiteService) persistLocked() {
	s.store.Save(siteStateKey, s.selection)
}

// SelectionState is the registry's externally visible state.
type SelectionState struct {
	sites.Selection
	Version   uint64 `json:"version"`
	LoadError string `json:"loadError,omitempty"`
}

// State returns a copy of the current selection state.
func (s *SiteService) State() SelectionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := s.selection
	sel.Sites = append([]sites.Site(nil), s.selection.Sites...)
	if s.selection.SelectedSiteID != nil {
		id := *s.selection.SelectedSiteID
		sel.SelectedSiteID = &id
	}

	return SelectionState{Selection: sel, Version: s.version, LoadError: s.loadError}
}

// Clear drops the selection state, e.g. on logout.
func (s *SiteService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastKey = ""
	s.loadError = ""
	s.selection = sites.Selection{}
	s.store.Clear(siteStateKey)
}
