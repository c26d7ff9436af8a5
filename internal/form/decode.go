package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// ErrMalformed reports a body that is not an object in a supported encoding.
var ErrMalformed = errors.New("malformed request body")

const mediaTypeCBOR = "application/cbor"

var cborMode cbor.DecMode

func init() {
	var err error
	cborMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Decode parses body into an untyped field map. CBOR is used for application/cbor;
// anything else, including a missing Content-Type, is parsed as JSON. The top
// level must be an object.
func Decode(contentType string, body []byte) (map[string]any, error) {
	mediaType := ""
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			mediaType = mt
		}
	}

	var raw map[string]any
	var err error
	if mediaType == mediaTypeCBOR {
		err = cborMode.Unmarshal(body, &raw)
	} else {
		err = json.Unmarshal(body, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: body is not an object", ErrMalformed)
	}
	return raw, nil
}
