// Package models defines the JSON documents exchanged by the nbase HTTP API
// and printed by the command line tool in --json mode.
package models

// EvalRequest asks for one operation over operands written in Base with
// Charset. ToBase and ToCharset are only read by "convert".
type EvalRequest struct {
	Op        string   `json:"op"`
	Args      []string `json:"args"`
	Base      int      `json:"base,omitempty"`
	Charset   string   `json:"charset,omitempty"`
	ToBase    int      `json:"to_base,omitempty"`
	ToCharset string   `json:"to_charset,omitempty"`
}

// EvalResponse carries the outcome of an EvalRequest. Result and Remainder
// are written with the result's own charset, or as comma separated digit
// values when Raw is set. Compare is only set by comparisons.
type EvalResponse struct {
	Op         string  `json:"op"`
	Base       int     `json:"base"`
	Result     string  `json:"result,omitempty"`
	Remainder  string  `json:"remainder,omitempty"`
	Compare    *int    `json:"compare,omitempty"`
	Digits     int     `json:"digits,omitempty"`
	Raw        bool    `json:"raw,omitempty"`
	DurationMS float64 `json:"duration_ms"`
}

// ErrorResponse reports a failed request. Kind is a stable machine readable
// class such as "invalid_argument" or "division_by_zero".
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version,omitempty"`
	Charsets  int    `json:"charsets"`
	Timestamp int64  `json:"timestamp"`
}

// Conversion is one line of a batch conversion.
type Conversion struct {
	Index  int    `json:"index"`
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}
