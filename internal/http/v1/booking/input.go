package booking

// SubmitInput carries the undecoded request body.
type SubmitInput struct {
	ContentType string `header:"Content-Type" doc:"application/json or application/cbor"`
	RawBody     []byte
}
