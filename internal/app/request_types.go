package app

// AskRequest is a natural-language question scoped to one company and
// reporting month. The report tables for that month are handed to the
// assistant as its only data source.
type AskRequest struct {
	CompanyID int    `json:"company_id"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Question  string `json:"question"`
}
