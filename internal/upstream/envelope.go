package upstream

import "encoding/json"

// Envelope is the fixed JSON wrapper used by every upstream response.
// Data is kept raw so proxied responses pass through byte-for-byte.
type Envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data,omitempty"`
	Error      *ErrorInfo      `json:"error,omitempty"`
	Message    string          `json:"message,omitempty"`
	Pagination *Pagination     `json:"pagination,omitempty"`
}

// ErrorInfo is the error half of the envelope.
type ErrorInfo struct {
	Code    string          `json:"code,omitempty"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

// Pagination is present on list responses only.
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// ErrorMessage returns the most specific message the envelope carries:
// error.message, then the top-level message, then fallback.
func (e *Envelope) ErrorMessage(fallback string) string {
	if e.Error != nil && e.Error.Message != "" {
		return e.Error.Message
	}
	if e.Message != "" {
		return e.Message
	}
	return fallback
}
