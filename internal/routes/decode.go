package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// maxBodyBytes bounds every request body the handlers read.
const maxBodyBytes = 1 << 16

var errUnsupportedContentType = errors.New("unsupported content type")

// decodeRequest fills dst from a JSON or form-urlencoded body.
// Form values go through mapstructure so checkbox fields ("on") land in bools.
func decodeRequest(w http.ResponseWriter, req *http.Request, dst interface{}) error {
	mediaType, _, err := mime.ParseMediaType(req.Header.Get(ContentType))
	if err != nil {
		return fmt.Errorf("%w: %v", errUnsupportedContentType, err)
	}

	req.Body = http.MaxBytesReader(w, req.Body, maxBodyBytes)
	switch mediaType {
	case ContentTypeJson:
		return json.NewDecoder(req.Body).Decode(dst)
	case ContentTypeForm:
		if err := req.ParseForm(); err != nil {
			return err
		}
		values := make(map[string]interface{}, len(req.PostForm))
		for key := range req.PostForm {
			values[key] = req.PostForm.Get(key)
		}
		return decodeForm(values, dst)
	default:
		return fmt.Errorf("%w: %s", errUnsupportedContentType, mediaType)
	}
}

func decodeForm(values map[string]interface{}, dst interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       checkboxHook,
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(values)
}

// checkboxHook maps HTML checkbox values onto bool fields.
func checkboxHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
		return data, nil
	}
	switch data.(string) {
	case "on":
		return true, nil
	case "", "off":
		return false, nil
	}
	return data, nil
}
