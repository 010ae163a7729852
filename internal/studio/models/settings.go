package models

// CloudConfig holds the connection parameters for the three external
// collaborators: the record store, the S3-compatible object store and the
// media toolkit.
type CloudConfig struct {
	RecordStoreURL     string `json:"recordStoreUrl"`
	RecordStoreToken   string `json:"recordStoreToken"`
	RecordStoreTableID string `json:"recordStoreTableId"`

	ObjectStoreEndpoint  string `json:"objectStoreEndpoint"`
	ObjectStoreAccessKey string `json:"objectStoreAccessKey"`
	ObjectStoreSecretKey string `json:"objectStoreSecretKey"`
	ObjectStoreBucket    string `json:"objectStoreBucket"`

	ToolkitURL string `json:"toolkitUrl,omitempty"`
	ToolkitKey string `json:"toolkitKey,omitempty"`
}

// RecordStoreValid reports whether the record store triple is complete.
func (c CloudConfig) RecordStoreValid() bool {
	return c.RecordStoreURL != "" && c.RecordStoreToken != "" && c.RecordStoreTableID != ""
}

// ObjectStoreValid reports whether the object store parameters are complete.
func (c CloudConfig) ObjectStoreValid() bool {
	return c.ObjectStoreEndpoint != "" && c.ObjectStoreAccessKey != "" &&
		c.ObjectStoreSecretKey != "" && c.ObjectStoreBucket != ""
}

// AppSettings is the persisted application state. It is always
// cloned-and-merged on update; nested CloudConfig fields survive partial
// patches.
type AppSettings struct {
	Theme          string      `json:"theme"`
	Language       string      `json:"language"`
	WebhookURL     string      `json:"webhookUrl"`
	WebhookEnabled bool        `json:"webhookEnabled"`
	QuotaLimit     int64       `json:"quotaLimit"`
	QuotaUsed      int64       `json:"quotaUsed"`
	Cloud          CloudConfig `json:"cloudConfig"`
}

// DefaultSettings returns the baseline settings used before any persisted
// or per-user overrides are applied.
func DefaultSettings() AppSettings {
	return AppSettings{
		Theme:      "light",
		Language:   "en",
		QuotaLimit: 1000,
	}
}

// CloudConfigPatch is a partial CloudConfig; nil fields are left unchanged.
type CloudConfigPatch struct {
	RecordStoreURL     *string
	RecordStoreToken   *string
	RecordStoreTableID *string

	ObjectStoreEndpoint  *string
	ObjectStoreAccessKey *string
	ObjectStoreSecretKey *string
	ObjectStoreBucket    *string

	ToolkitURL *string
	ToolkitKey *string
}

// SettingsPatch is a partial AppSettings update; nil fields are left
// unchanged. Apply never replaces the nested CloudConfig wholesale.
type SettingsPatch struct {
	Theme          *string
	Language       *string
	WebhookURL     *string
	WebhookEnabled *bool
	QuotaLimit     *int64
	QuotaUsed      *int64
	Cloud          *CloudConfigPatch
}

// Apply merges the patch into a copy of s and returns the result.
func (p SettingsPatch) Apply(s AppSettings) AppSettings {
	out := s
	if p.Theme != nil {
		out.Theme = *p.Theme
	}
	if p.Language != nil {
		out.Language = *p.Language
	}
	if p.WebhookURL != nil {
		out.WebhookURL = *p.WebhookURL
	}
	if p.WebhookEnabled != nil {
		out.WebhookEnabled = *p.WebhookEnabled
	}
	if p.QuotaLimit != nil {
		out.QuotaLimit = *p.QuotaLimit
	}
	if p.QuotaUsed != nil {
		out.QuotaUsed = *p.QuotaUsed
	}
	if p.Cloud != nil {
		out.Cloud = p.Cloud.apply(s.Cloud)
	}
	return out
}

func (p CloudConfigPatch) apply(c CloudConfig) CloudConfig {
	out := c
	if p.RecordStoreURL != nil {
		out.RecordStoreURL = *p.RecordStoreURL
	}
	if p.RecordStoreToken != nil {
		out.RecordStoreToken = *p.RecordStoreToken
	}
	if p.RecordStoreTableID != nil {
		out.RecordStoreTableID = *p.RecordStoreTableID
	}
	if p.ObjectStoreEndpoint != nil {
		out.ObjectStoreEndpoint = *p.ObjectStoreEndpoint
	}
	if p.ObjectStoreAccessKey != nil {
		out.ObjectStoreAccessKey = *p.ObjectStoreAccessKey
	}
	if p.ObjectStoreSecretKey != nil {
		out.ObjectStoreSecretKey = *p.ObjectStoreSecretKey
	}
	if p.ObjectStoreBucket != nil {
		out.ObjectStoreBucket = *p.ObjectStoreBucket
	}
	if p.ToolkitURL != nil {
		out.ToolkitURL = *p.ToolkitURL
	}
	if p.ToolkitKey != nil {
		out.ToolkitKey = *p.ToolkitKey
	}
	return out
}
