package types

// Record store keys. One key per collection or setting; the key names
// are a stable contract with existing data directories and backups.
const (
	KeyProductivity = "productivity-samples"
	KeyMatchFactor  = "match-factor-samples"
	KeyIssues       = "issue-records"

	KeyUserName         = "user-name"
	KeyUserBadge        = "user-badge-number"
	KeyLastUpdate       = "last-update"
	KeySidebarCollapsed = "sidebar-collapsed"
	KeyExpandedState    = "expanded-state"
)

// CollectionKeys lists the three structured collections in the order
// they appear in backup documents.
var CollectionKeys = []string{KeyProductivity, KeyMatchFactor, KeyIssues}

// SettingsKeys lists the scalar user preference keys.
var SettingsKeys = []string{
	KeyUserName, KeyUserBadge, KeyLastUpdate, KeySidebarCollapsed, KeyExpandedState,
}
