package models

import "github.com/shopspring/decimal"

type Lead struct {
	LeadID         string          `gorm:"size:50;not null;uniqueIndex" json:"leadId"`
	CompanyName    string          `gorm:"size:255;not null"            json:"companyName"`
	ContactName    string          `gorm:"size:255;not null"            json:"contactName"`
	InterestedSku  string          `gorm:"size:100;not null;index"      json:"interestedSku"`
	EstimatedValue decimal.Decimal `gorm:"type:numeric(12,2)"           json:"estimatedValue"`
	Status         string          `gorm:"size:50;not null"             json:"status"`
	Base
}

// Opportunity is a qualified sale in progress. Probability is a percentage.
type Opportunity struct {
	OpportunityID string          `gorm:"size:50;not null;uniqueIndex" json:"opportunityId"`
	CustomerName  string          `gorm:"size:255;not null"            json:"customerName"`
	SKU           string          `gorm:"size:100;not null;index"      json:"sku"`
	Quantity      int             `gorm:"not null"                     json:"quantity"`
	Value         decimal.Decimal `gorm:"type:numeric(12,2);not null"  json:"value"`
	Probability   int             `gorm:"not null"                     json:"probability"`
	Stage         string          `gorm:"size:50;not null"             json:"stage"`
	Base
}
