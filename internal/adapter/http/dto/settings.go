package dto

type Settings struct {
	UserEmail            string `json:"user_email"`
	EmailNotifications   bool   `json:"email_notifications"`
	BrowserNotifications bool   `json:"browser_notifications"`
	DailyDigestTime      string `json:"daily_digest_time"`
	EmailProvider        string `json:"email_provider"`
	Web3FormsKey         string `json:"web3forms_key,omitempty"`
	CustomAPIEndpoint    string `json:"custom_api_endpoint,omitempty"`
}

// UpdateSettingsRequest is a partial update. Pointer fields distinguish an
// absent key from an explicit empty value, so stored settings can be cleared.
type UpdateSettingsRequest struct {
	UserEmail            *string `json:"user_email" binding:"omitempty,email"`
	EmailNotifications   *bool   `json:"email_notifications"`
	BrowserNotifications *bool   `json:"browser_notifications"`
	DailyDigestTime      *string `json:"daily_digest_time" binding:"omitempty,datetime=15:04"`
	EmailProvider        *string `json:"email_provider" binding:"omitempty,oneof=mock web3forms custom"`
	Web3FormsKey         *string `json:"web3forms_key"`
	CustomAPIEndpoint    *string `json:"custom_api_endpoint" binding:"omitempty,url"`
}
