package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/mitchellh/mapstructure"
)

const maxBodyBytes = 64 << 10

var errBadPayload = errors.New("bad payload")

// decodeForm fills out from a JSON object or a url-encoded form. Values are decoded
// weakly so "3" and 3 both land in a numeric field.
func decodeForm(w http.ResponseWriter, r *http.Request, out any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	raw := map[string]any{}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		var err error
		if mediaType == "multipart/form-data" {
			err = r.ParseMultipartForm(maxBodyBytes)
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
		for key, values := range r.PostForm {
			if len(values) > 0 {
				raw[key] = values[0]
			}
		}
	default:
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", errBadPayload, err)
	}
	return nil
}
