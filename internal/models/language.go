package models

// Language is one of the locales content can be served in.
type Language struct {
	BaseEntity
	IsoCode   string  `gorm:"uniqueIndex;size:2;not null" json:"iso_code"`
	Name      string  `gorm:"size:50;not null" json:"name"`
	IsActive  bool    `gorm:"default:true" json:"is_active"`
	IsDefault bool    `gorm:"default:false" json:"is_default"`
	FlagIcon  *string `gorm:"size:50" json:"flag_icon,omitempty"`
}
