package model

import "time"

// OAuthCredential stores the tokens obtained from a POS provider.
type OAuthCredential struct {
	Provider     string `gorm:"primaryKey;size:32"`
	MerchantCode string `gorm:"size:128"`
	MerchantName string `gorm:"size:256"`
	AccessToken  string `gorm:"type:text;not null"`
	RefreshToken string `gorm:"type:text"`
	TokenType    string `gorm:"size:32"`
	Scope        string `gorm:"size:512"`
	ExpiresAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (OAuthCredential) TableName() string {
	return "oauth_credentials"
}
