package catalog

import "errors"

var errInvalidPayload = errors.New("response body is not valid JSON")
