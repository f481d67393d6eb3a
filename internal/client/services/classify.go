package services

import "strings"

// The tables in this file are a compatibility shim for one vendor's error
// strings. Swap them per backend; the retry loop only sees categories.

// Rule maps a case-insensitive message substring to a category.
type Rule struct {
	Pattern  string
	Category Category
}

// Table is an ordered rule list; the first matching rule wins and no match
// means CategoryUnknown.
type Table []Rule

// Classify returns the category of err's message.
func (t Table) Classify(err error) Category {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	for _, r := range t {
		if strings.Contains(msg, strings.ToLower(r.Pattern)) {
			return r.Category
		}
	}
	return CategoryUnknown
}

func rules(category Category, patterns ...string) Table {
	t := make(Table, 0, len(patterns))
	for _, p := range patterns {
		t = append(t, Rule{Pattern: p, Category: category})
	}
	return t
}

var (
	credentialRules = rules(CategoryCredential,
		"credential", "incorrect", "malformed", "expired",
		"wrong password", "wrong_password",
		"invalid email", "invalid_email",
		"user not found", "user_not_found",
	)
	networkRules = rules(CategoryNetwork,
		"network", "timeout", "end of stream", "unavailable", "unexpected",
	)
)

// LoginTable checks credential rejections before transport failures.
var LoginTable = append(append(Table{}, credentialRules...), networkRules...)

// RegisterTable only singles out transport failures; there is no prior
// credential to reject during registration.
var RegisterTable = append(Table{}, networkRules...)

type messageRule struct {
	pattern string
	text    string
}

var userMessages = map[Category][]messageRule{
	CategoryCredential: {
		{"invalid_email", "Invalid email format"},
		{"invalid email", "Invalid email format"},
		{"user_not_found", "User not found"},
		{"user not found", "User not found"},
		{"wrong_password", "Wrong password"},
		{"wrong password", "Wrong password"},
		{"credential", "Invalid email or password"},
		{"expired", "Session expired. Please try again"},
	},
	CategoryNetwork: {
		{"end of stream", "Connection interrupted. Please check your internet and try again"},
		{"timeout", "Request timeout. Please check your internet connection"},
		{"unavailable", "Service unavailable. Please try again later"},
	},
	CategoryUnknown: {
		{"email_already_in_use", "Email already registered"},
		{"invalid_email", "Invalid email format"},
		{"weak_password", "Password is too weak"},
		{"permission_denied", "Permission denied. Please check your account permissions"},
		{"missing or insufficient permissions", "Permission denied. Please check your account permissions"},
	},
}

var fallbackMessages = map[Category]string{
	CategoryCredential: "Invalid email or password",
	CategoryNetwork:    "Network error. Please check your connection",
}

func userMessage(category Category, raw string) string {
	msg := strings.ToLower(raw)
	for _, r := range userMessages[category] {
		if strings.Contains(msg, r.pattern) {
			return r.text
		}
	}
	if text, ok := fallbackMessages[category]; ok {
		return text
	}
	return "Error: " + raw
}
