package report

import (
	"github.com/jackzampolin/gutenshelf/internal/catalog"
	"github.com/jackzampolin/gutenshelf/internal/category"
)

// CategoryInfo describes a category definition and the state of its catalog.
type CategoryInfo struct {
	Key          string `json:"key" yaml:"key"`
	Name         string `json:"name" yaml:"name"`
	Language     string `json:"language,omitempty" yaml:"language,omitempty"`
	File         string `json:"file" yaml:"file"`
	Books        int    `json:"books" yaml:"books"`
	ConfigErrors int    `json:"config_errors" yaml:"config_errors"`
	Complete     int    `json:"complete" yaml:"complete"`
	Failed       int    `json:"failed" yaml:"failed"`
}

// NewCategoryInfo summarizes cat. cache may be nil when no catalog exists.
func NewCategoryInfo(cat *category.Category, cache *catalog.Cache) CategoryInfo {
	info := CategoryInfo{
		Key:          cat.Key,
		Name:         cat.Name,
		Language:     cat.Language,
		File:         cat.Path,
		Books:        len(cat.Books),
		ConfigErrors: len(cat.Errors),
	}
	if cache == nil {
		return info
	}
	for _, rec := range cache.Records() {
		switch rec.Status {
		case catalog.StatusComplete:
			info.Complete++
		case catalog.StatusFailed:
			info.Failed++
		}
	}
	return info
}

// CatalogView is the printable form of one catalog.
type CatalogView struct {
	Category string           `json:"category" yaml:"category"`
	Path     string           `json:"path" yaml:"path"`
	Records  []catalog.Record `json:"records" yaml:"records"`
}

// NewCatalogView lists the records of cache, optionally only those with
// the given status.
func NewCatalogView(key string, cache *catalog.Cache, status catalog.Status) CatalogView {
	view := CatalogView{Category: key, Path: cache.Path(), Records: []catalog.Record{}}
	for _, rec := range cache.Records() {
		if status != "" && rec.Status != status {
			continue
		}
		view.Records = append(view.Records, rec)
	}
	return view
}
