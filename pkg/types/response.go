package types

// Envelope is the uniform wrapper returned by every orchestrated operation.
// Meta is attached only on list responses that carry at least one row.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Error   string `json:"error"`
	Meta    *Meta  `json:"meta,omitempty"`
}

// Meta carries offset pagination bookkeeping for list responses.
type Meta struct {
	Total    int64   `json:"total"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

func Success(data any) Envelope {
	return Envelope{Success: true, Data: data, Error: ""}
}

func SuccessList(data any, meta *Meta) Envelope {
	return Envelope{Success: true, Data: data, Error: "", Meta: meta}
}

func Failure(msg string) Envelope {
	return Envelope{Success: false, Error: msg}
}
