package http

// Envelope wraps every successful handler result.
type Envelope struct {
	OK     bool `json:"ok"`
	Result any  `json:"result"`
}

// ErrorEnvelope wraps every failed dispatch.
type ErrorEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Success builds a success envelope
func Success(result any) Envelope {
	return Envelope{OK: true, Result: result}
}

// Failure builds an error envelope
func Failure(msg string) ErrorEnvelope {
	return ErrorEnvelope{OK: false, Error: msg}
}
