package errors

// Envelope wraps every inventory response body.
// IsFailed=false carries Data and no Message; IsFailed=true carries a Message and null Data.
type Envelope[T any] struct {
	Data     *T     `json:"data"`
	IsFailed bool   `json:"isFailed"`
	Message  string `json:"message,omitempty"`
}

// Succeed wraps data in a successful envelope
func Succeed[T any](data T) Envelope[T] {
	return Envelope[T]{Data: &data}
}

// Fail builds a failed envelope. An empty message is replaced so the
// failure is never silent.
func Fail[T any](message string) Envelope[T] {
	if message == "" {
		message = "request failed"
	}
	return Envelope[T]{IsFailed: true, Message: message}
}
