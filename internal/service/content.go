package service

import (
	"strings"
	"time"

	"prospectus/internal/domain"
	"prospectus/internal/vocab"
)

const (
	previewChars       = 100
	admissionItems     = 5
	admissionItemChars = 300
	generalCategory    = "general"
)

// ContentPreview is a listing entry for one stored chunk.
type ContentPreview struct {
	ID        string     `json:"id"`
	Page      int        `json:"page"`
	Filename  string     `json:"filename"`
	Tag       domain.Tag `json:"tag"`
	Preview   string     `json:"textPreview"`
	Timestamp time.Time  `json:"timestamp"`
}

// Content lists the live set with short text previews.
func (a *Assistant) Content() []ContentPreview {
	snap := a.storage.Snapshot()
	out := make([]ContentPreview, 0, snap.Len())
	if snap == nil {
		return out
	}
	for _, c := range snap.Chunks {
		out = append(out, ContentPreview{
			ID:        c.ID,
			Page:      c.Page,
			Filename:  c.Filename,
			Tag:       c.Tag,
			Preview:   truncateRunes(c.Text, previewChars) + "...",
			Timestamp: c.Timestamp,
		})
	}
	return out
}

// AdmissionInfo groups admission-related chunk text by category.
type AdmissionInfo struct {
	Categories map[string][]string
	Matched    int
}

// AdmissionInfo collects chunks mentioning admission keywords and buckets
// them into categories of at most five clipped items each. Empty categories
// are omitted.
func (a *Assistant) AdmissionInfo() (AdmissionInfo, error) {
	snap := a.storage.Snapshot()
	if snap.Len() == 0 {
		return AdmissionInfo{}, domain.ErrNoContent
	}
	info := AdmissionInfo{Categories: map[string][]string{}}
	for _, c := range snap.Chunks {
		lower := strings.ToLower(c.Text)
		if !containsAny(lower, vocab.AdmissionKeywords) {
			continue
		}
		info.Matched++
		cat := generalCategory
		for _, ac := range vocab.AdmissionCategories {
			if containsAny(lower, ac.Keywords) {
				cat = ac.Name
				break
			}
		}
		if len(info.Categories[cat]) < admissionItems {
			info.Categories[cat] = append(info.Categories[cat], clip(c.Text, admissionItemChars))
		}
	}
	return info, nil
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
