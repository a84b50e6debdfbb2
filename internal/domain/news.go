package domain

import "time"

// NewsCategory is the fixed set of news sections.
type NewsCategory string

const (
	NewsCategoryDomestic      NewsCategory = "domestic"
	NewsCategoryInternational NewsCategory = "international"
	NewsCategoryResearch      NewsCategory = "research"
	NewsCategoryPolicy        NewsCategory = "policy"
	NewsCategoryMarket        NewsCategory = "market"
	NewsCategoryTechnology    NewsCategory = "technology"
)

// Valid reports whether c is one of the known categories.
func (c NewsCategory) Valid() bool {
	switch c {
	case NewsCategoryDomestic, NewsCategoryInternational, NewsCategoryResearch,
		NewsCategoryPolicy, NewsCategoryMarket, NewsCategoryTechnology:
		return true
	}
	return false
}

// NormalizeNewsCategory maps unknown values to domestic.
func NormalizeNewsCategory(s string) NewsCategory {
	c := NewsCategory(s)
	if !c.Valid() {
		return NewsCategoryDomestic
	}
	return c
}

// News is an industry news article.
// Title uniqueness is approximate; see repository.NewsRepository.ExistsByTitlePrefix.
type News struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"type:varchar(500);not null;index:idx_news_title" json:"title"`
	Summary     *string      `gorm:"type:text" json:"summary"`
	Content     *string      `gorm:"type:text" json:"content"`
	SourceURL   *string      `gorm:"type:varchar(1000)" json:"sourceUrl"`
	SourceName  *string      `gorm:"type:varchar(200)" json:"sourceName"`
	ImageURL    *string      `gorm:"type:varchar(1000)" json:"imageUrl"`
	Category    NewsCategory `gorm:"type:varchar(32);not null;default:domestic;index:idx_news_category" json:"category"`
	Tags        StringArray  `gorm:"type:text" json:"tags"`
	IsImportant bool         `gorm:"not null;default:false" json:"isImportant"`
	PublishedAt time.Time    `gorm:"not null;index:idx_news_published_at" json:"publishedAt"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TableName returns the database table name for News.
func (News) TableName() string {
	return "news"
}
