package models

// UnlimitedQuota is the QuotaRecord value meaning "no limit"
const UnlimitedQuota = -1

// QuotaRecord is a default service quota
type QuotaRecord struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Adjustable bool    `json:"adjustable"`
	Unit       string  `json:"unit"`
}
