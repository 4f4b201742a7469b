// Package cases serves the case summaries from a YAML catalog maintained
// alongside the site content.
package cases

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/savedeities/contribute/internal/domain/cases"
	"github.com/savedeities/contribute/internal/shared/logger"
)

type catalogFile struct {
	Cases []catalogEntry `yaml:"cases"`
}

type catalogEntry struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"image_url"`
	Status      string `yaml:"status"`
	CourtName   string `yaml:"court_name"`
}

// CatalogRepository is a read-only cases.Repository backed by a YAML file.
type CatalogRepository struct {
	path   string
	logger logger.Interface

	mu    sync.RWMutex
	cases map[string]*cases.Case
}

var _ cases.Repository = (*CatalogRepository)(nil)

// NewCatalogRepository loads the catalog at path. A missing file yields an
// empty catalog so the general contribution page still works.
func NewCatalogRepository(path string, log logger.Interface) (*CatalogRepository, error) {
	r := &CatalogRepository{path: path, logger: log, cases: map[string]*cases.Case{}}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the catalog file.
func (r *CatalogRepository) Reload() error {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		r.logger.Warnw("case catalog not found, serving no cases", "path", r.path)
		r.replace(map[string]*cases.Case{})
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read case catalog: %w", err)
	}

	loaded, err := ParseCatalog(data)
	if err != nil {
		return fmt.Errorf("failed to parse case catalog %s: %w", r.path, err)
	}
	r.replace(loaded)
	r.logger.Infow("case catalog loaded", "path", r.path, "cases", len(loaded))
	return nil
}

func (r *CatalogRepository) replace(m map[string]*cases.Case) {
	r.mu.Lock()
	r.cases = m
	r.mu.Unlock()
}

func (r *CatalogRepository) GetCase(ctx context.Context, id string) (*cases.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.cases[id]
	if !ok {
		return nil, cases.ErrCaseNotFound
	}
	out := *c
	return &out, nil
}

// ParseCatalog decodes and validates catalog YAML.
func ParseCatalog(data []byte) (map[string]*cases.Case, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	out := make(map[string]*cases.Case, len(file.Cases))
	for i, e := range file.Cases {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return nil, fmt.Errorf("case #%d has no id", i+1)
		}
		if _, dup := out[id]; dup {
			return nil, fmt.Errorf("duplicate case id %q", id)
		}
		status := cases.Status(strings.ToLower(strings.TrimSpace(e.Status)))
		if status == "" {
			status = cases.StatusActive
		}
		if !status.IsValid() {
			return nil, fmt.Errorf("case %q has invalid status %q", id, e.Status)
		}
		out[id] = &cases.Case{
			ID:          id,
			Title:       strings.TrimSpace(e.Title),
			Description: e.Description,
			ImageURL:    e.ImageURL,
			Status:      status,
			CourtName:   e.CourtName,
		}
	}
	return out, nil
}
