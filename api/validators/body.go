package validators

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	pkgerrors "github.com/aryansdevstudios/toppers-toolkit-backend/pkg/errors"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/validation"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// DecodeJSONBody decodes a required JSON body into dest and validates it.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dest any) error {
	return decode(w, r, dest, false)
}

// DecodeOptionalJSONBody behaves like DecodeJSONBody but accepts an empty body.
func DecodeOptionalJSONBody(w http.ResponseWriter, r *http.Request, dest any) error {
	return decode(w, r, dest, true)
}

func decode(w http.ResponseWriter, r *http.Request, dest any, optional bool) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return validation.Struct(dest)
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").WithDetails(map[string]any{"error": err.Error()})
	}
	return validation.Struct(dest)
}
