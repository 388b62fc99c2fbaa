package models

import "encoding/json"

// FeatureFlag toggles one capability. Flags carrying a ClientKey are also
// exposed to browser clients through the public flag map.
type FeatureFlag struct {
	BaseEntity
	Key         string  `gorm:"uniqueIndex;size:100;not null" json:"key"`
	Description string  `gorm:"type:text" json:"description"`
	Category    string  `gorm:"size:100" json:"category"`
	IsEnabled   bool    `gorm:"default:false" json:"is_enabled"`
	ClientKey   *string `gorm:"size:100" json:"client_key,omitempty"`

	// Configuration is a free-form JSON object of flag settings.
	Configuration string `gorm:"type:text;not null;default:'{}'" json:"-"`
}

// GetConfiguration decodes the configuration object, never returning nil.
func (f *FeatureFlag) GetConfiguration() map[string]any {
	config := map[string]any{}
	if f.Configuration != "" {
		_ = json.Unmarshal([]byte(f.Configuration), &config)
	}
	return config
}

// SetConfiguration encodes and stores the configuration object.
func (f *FeatureFlag) SetConfiguration(config map[string]any) error {
	if config == nil {
		config = map[string]any{}
	}
	raw, err := json.Marshal(config)
	if err != nil {
		return err
	}
	f.Configuration = string(raw)
	return nil
}
