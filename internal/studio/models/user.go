package models

// AuthProvider tags how a session was established.
type AuthProvider string

const (
	ProviderCloud     AuthProvider = "cloud"
	ProviderDeveloper AuthProvider = "developer"
)

// User is the current account. RowID is the remote record row backing the
// profile; it is required for profile updates. The in-memory user never
// carries a password.
type User struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	Phone         string       `json:"phone,omitempty"`
	Avatar        string       `json:"avatar,omitempty"`
	APIKey        string       `json:"apiKey,omitempty"`
	Provider      AuthProvider `json:"provider"`
	RowID         int64        `json:"rowId,omitempty"`
	SavedSettings *AppSettings `json:"savedSettings,omitempty"`
}

// Actor is a named voice preset layered on generation-provider voice ids.
// Actors are a local convenience and are never synced remotely.
type Actor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	VoiceID     string `json:"voiceId"`
	Avatar      string `json:"avatar,omitempty"`
	Description string `json:"description,omitempty"`
}
