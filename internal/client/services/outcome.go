package services

// Category classifies a failed credential operation.
type Category string

const (
	// CategoryValidation is a local pre-flight rejection. Never retried.
	CategoryValidation Category = "validation"
	// CategoryCredential is a remote rejection of the identity. Never retried.
	CategoryCredential Category = "credential"
	// CategoryNetwork is a transient transport failure. Retried up to the cap.
	CategoryNetwork Category = "network"
	// CategoryUnknown is anything else. Never retried.
	CategoryUnknown Category = "unknown"
	// CategoryCanceled means the caller abandoned the operation.
	CategoryCanceled Category = "canceled"
)

// Outcome is the result of one Login or Register call: success, or a
// failure carrying a category and the raw backend message.
type Outcome struct {
	Category   Category
	RawMessage string
}

func Success() Outcome {
	return Outcome{}
}

// Failure builds a failed outcome. An empty category is recorded as unknown.
func Failure(category Category, raw string) Outcome {
	if category == "" {
		category = CategoryUnknown
	}
	return Outcome{Category: category, RawMessage: raw}
}

// OK reports whether the operation succeeded.
func (o Outcome) OK() bool {
	return o.Category == ""
}

// Message is the text shown to the user; empty on success.
func (o Outcome) Message() string {
	switch o.Category {
	case "":
		return ""
	case CategoryValidation:
		return o.RawMessage
	case CategoryCanceled:
		return "Operation canceled"
	default:
		return userMessage(o.Category, o.RawMessage)
	}
}

func (o Outcome) String() string {
	if o.OK() {
		return "success"
	}
	return string(o.Category) + ": " + o.RawMessage
}
