package types

import "time"

// BackupVersion is the format tag written into exported documents.
// It is carried through restore but not branched on; an incompatible
// format change must add an explicit version-gated restore path.
const BackupVersion = "2.0"

// UserSettings is the user preference snapshot carried in a backup.
type UserSettings struct {
	UserName         string          `json:"userName,omitempty"`
	BadgeNumber      string          `json:"badgeNumber,omitempty"`
	LastUpdate       string          `json:"lastUpdate,omitempty"`
	SidebarCollapsed bool            `json:"sidebarCollapsed,omitempty"`
	ExpandedState    map[string]bool `json:"expandedState,omitempty"`
}

// BackupMetadata holds per-collection counts computed from the actual
// collections at export time.
type BackupMetadata struct {
	TotalProductivity int `json:"totalProductivity"`
	TotalMatchFactor  int `json:"totalMatchFactor"`
	TotalIssues       int `json:"totalIssues"`
	TotalImages       int `json:"totalImages"`
	TotalRecords      int `json:"totalRecords"`
}

// BackupDocument is the single JSON document holding the full
// application state: the three structured collections, every photo
// re-encoded as base64, user preferences, and summary metadata.
//
// ImagesData may be absent in legacy backups; restore then proceeds
// with zero photos. A document missing all three structured collections
// is invalid.
type BackupDocument struct {
	Version          string               `json:"version"`
	ExportDate       time.Time            `json:"exportDate"`
	ProductivityData []ProductivitySample `json:"productivityData"`
	MatchFactorData  []MatchFactorSample  `json:"matchFactorData"`
	IssuesData       []IssueRecord        `json:"issuesData"`
	ImagesData       []PhotoExport        `json:"imagesData,omitempty"`
	UserSettings     *UserSettings        `json:"userSettings,omitempty"`
	Metadata         BackupMetadata       `json:"metadata"`
}
