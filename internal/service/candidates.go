package service

import (
	"strings"
	"time"

	"github.com/timmy/pvhub/internal/domain"
)

// NewsCandidate is a structured news record proposed by the LLM.
type NewsCandidate struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	SourceName  string `json:"sourceName"`
	SourceURL   string `json:"sourceUrl"`
	Category    string `json:"category"`
	IsImportant bool   `json:"isImportant"`
}

// TitleText returns the trimmed title.
func (c NewsCandidate) TitleText() string { return strings.TrimSpace(c.Title) }

// ToNews builds the row to insert, normalizing the category.
func (c NewsCandidate) ToNews(publishedAt time.Time) *domain.News {
	return &domain.News{
		Title:       c.TitleText(),
		Summary:     domain.OptionalString(c.Summary),
		SourceName:  domain.OptionalString(c.SourceName),
		SourceURL:   domain.OptionalString(c.SourceURL),
		Category:    domain.NormalizeNewsCategory(strings.TrimSpace(c.Category)),
		Tags:        domain.StringArray{},
		IsImportant: c.IsImportant,
		PublishedAt: publishedAt,
	}
}

// TenderCandidate is a structured tender record proposed by the LLM.
type TenderCandidate struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	ProjectType    string `json:"projectType"`
	Budget         string `json:"budget"`
	Region         string `json:"region"`
	PublisherName  string `json:"publisherName"`
	IsImportant    bool   `json:"isImportant"`
	Status         string `json:"status"`
	SourceURL      string `json:"sourceUrl"`
	SourcePlatform string `json:"sourcePlatform"`
}

// TitleText returns the trimmed title.
func (c TenderCandidate) TitleText() string { return strings.TrimSpace(c.Title) }

// ToTender builds the row to insert, normalizing project type and status.
func (c TenderCandidate) ToTender(publishedAt time.Time) *domain.Tender {
	return &domain.Tender{
		Title:          c.TitleText(),
		Description:    domain.OptionalString(c.Description),
		ProjectType:    domain.NormalizeProjectType(strings.TrimSpace(c.ProjectType)),
		Budget:         domain.OptionalString(c.Budget),
		Region:         domain.OptionalString(c.Region),
		PublisherName:  domain.OptionalString(c.PublisherName),
		SourceURL:      domain.OptionalString(c.SourceURL),
		SourcePlatform: domain.OptionalString(c.SourcePlatform),
		IsImportant:    c.IsImportant,
		Status:         domain.NormalizeTenderStatus(strings.TrimSpace(c.Status)),
		PublishedAt:    publishedAt,
	}
}

type candidate interface {
	NewsCandidate | TenderCandidate
	TitleText() string
}
