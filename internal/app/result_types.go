package app

import "ledger-insight/internal/ai"

// UserSession is the authenticated identity handed to adapters after a
// successful login. It never carries the password hash.
type UserSession struct {
	UserID    int    `json:"user_id"`
	CompanyID int    `json:"company_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
}

// UserResult is a user profile lookup result.
type UserResult struct {
	UserID    int    `json:"user_id"`
	CompanyID int    `json:"company_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// AskResult is the assistant's answer plus the titles of the report
// tables it was shown.
type AskResult struct {
	Answer *ai.Answer `json:"answer"`
	Tables []string   `json:"tables"`
}
