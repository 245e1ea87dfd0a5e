package domain

// UserSettings holds per-user client preferences.
type UserSettings struct {
	UserID   string `json:"userId"`
	AutoSave bool   `json:"autoSave"`
	Timestamps
}

// DefaultSettings returns the settings a new account starts with.
func DefaultSettings(userID string) *UserSettings {
	s := &UserSettings{UserID: userID, AutoSave: true}
	s.InitTimestamps()
	return s
}
