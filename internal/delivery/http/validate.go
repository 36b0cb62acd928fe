package http

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Validator is the optional self-check hook on request DTOs. Validate returns
// one message per failed field; an empty slice means the payload is usable.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate reads the JSON body into dest, rejecting unknown fields,
// then runs dest's Validate hook when it has one. Failures are answered
// in place with a 400 envelope and a false return, so handlers can bail with
// a bare return.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return false
	}
	if v, ok := dest.(Validator); ok {
		if msgs := v.Validate(); len(msgs) > 0 {
			WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(msgs, "; "))
			return false
		}
	}
	return true
}
