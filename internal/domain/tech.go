package domain

import "time"

// ResearchType is the topic of a research paper.
type ResearchType string

const (
	ResearchTypeEfficiency        ResearchType = "efficiency"
	ResearchTypeStability         ResearchType = "stability"
	ResearchTypeMaterials         ResearchType = "materials"
	ResearchTypeFabrication       ResearchType = "fabrication"
	ResearchTypeTandem            ResearchType = "tandem"
	ResearchTypeFlexible          ResearchType = "flexible"
	ResearchTypeCommercialization ResearchType = "commercialization"
	ResearchTypeOther             ResearchType = "other"
)

// Valid reports whether t is a known research type.
func (t ResearchType) Valid() bool {
	switch t {
	case ResearchTypeEfficiency, ResearchTypeStability, ResearchTypeMaterials,
		ResearchTypeFabrication, ResearchTypeTandem, ResearchTypeFlexible,
		ResearchTypeCommercialization, ResearchTypeOther:
		return true
	}
	return false
}

// PatentType is the filing route of a patent.
type PatentType string

const (
	PatentTypeInvention PatentType = "invention"
	PatentTypeUtility   PatentType = "utility"
	PatentTypeDesign    PatentType = "design"
	PatentTypePCT       PatentType = "pct"
)

// Valid reports whether t is a known patent type.
func (t PatentType) Valid() bool {
	switch t {
	case PatentTypeInvention, PatentTypeUtility, PatentTypeDesign, PatentTypePCT:
		return true
	}
	return false
}

// PatentStatus is the examination state of a patent.
type PatentStatus string

const (
	PatentStatusPending  PatentStatus = "pending"
	PatentStatusGranted  PatentStatus = "granted"
	PatentStatusRejected PatentStatus = "rejected"
	PatentStatusExpired  PatentStatus = "expired"
)

// Valid reports whether s is a known patent status.
func (s PatentStatus) Valid() bool {
	switch s {
	case PatentStatusPending, PatentStatusGranted, PatentStatusRejected, PatentStatusExpired:
		return true
	}
	return false
}

// ResearchPaper is a published paper in the technology section.
type ResearchPaper struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Title        string       `gorm:"type:varchar(500);not null" json:"title"`
	TitleEn      *string      `gorm:"type:varchar(500)" json:"titleEn"`
	Authors      StringArray  `gorm:"type:text" json:"authors"`
	Abstract     *string      `gorm:"type:text" json:"abstract"`
	Summary      *string      `gorm:"type:text" json:"summary"`
	Journal      *string      `gorm:"type:varchar(300)" json:"journal"`
	DOI          *string      `gorm:"type:varchar(200)" json:"doi"`
	SourceURL    *string      `gorm:"type:varchar(1000)" json:"sourceUrl"`
	ImageURL     *string      `gorm:"type:varchar(1000)" json:"imageUrl"`
	ResearchType ResearchType `gorm:"type:varchar(32);not null;default:other;index:idx_paper_research_type" json:"researchType"`
	KeyFindings  StringArray  `gorm:"type:text" json:"keyFindings"`
	Institutions StringArray  `gorm:"type:text" json:"institutions"`
	Tags         StringArray  `gorm:"type:text" json:"tags"`
	IsHighlight  bool         `gorm:"not null;default:false" json:"isHighlight"`
	PublishedAt  *time.Time   `gorm:"index:idx_paper_published_at" json:"publishedAt"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// TableName returns the database table name for ResearchPaper.
func (ResearchPaper) TableName() string {
	return "research_papers"
}

// Patent is a perovskite-related patent filing.
type Patent struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Title        string       `gorm:"type:varchar(500);not null" json:"title"`
	TitleEn      *string      `gorm:"type:varchar(500)" json:"titleEn"`
	PatentNumber *string      `gorm:"type:varchar(100)" json:"patentNumber"`
	Applicants   StringArray  `gorm:"type:text" json:"applicants"`
	Inventors    StringArray  `gorm:"type:text" json:"inventors"`
	Abstract     *string      `gorm:"type:text" json:"abstract"`
	Summary      *string      `gorm:"type:text" json:"summary"`
	PatentType   PatentType   `gorm:"type:varchar(32);not null;default:invention" json:"patentType"`
	Country      string       `gorm:"type:varchar(50);not null;default:CN" json:"country"`
	Status       PatentStatus `gorm:"type:varchar(32);not null;default:pending" json:"status"`
	IPCCode      *string      `gorm:"type:varchar(100)" json:"ipcCode"`
	SourceURL    *string      `gorm:"type:varchar(1000)" json:"sourceUrl"`
	Tags         StringArray  `gorm:"type:text" json:"tags"`
	IsHighlight  bool         `gorm:"not null;default:false" json:"isHighlight"`
	FiledAt      *time.Time   `json:"filedAt"`
	PublishedAt  *time.Time   `gorm:"index:idx_patent_published_at" json:"publishedAt"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// TableName returns the database table name for Patent.
func (Patent) TableName() string {
	return "patents"
}
