// Package share encodes problem sets into shareable play URLs and decodes
// them back. The whole set definition travels in a single query-string
// parameter, so a receiver can play a set that never existed in their own
// storage.
package share

import (
	"encoding/json"
	"fmt"
	"net/url"

	"sqldrill/internal/common"
	"sqldrill/internal/domain/model"

	"github.com/go-playground/validator/v10"
)

// ParamName is the fixed query-string parameter carrying the JSON-encoded set.
const ParamName = "problemSets"

var validate = validator.New()

// EncodeURL builds a play URL for the given set on top of base, e.g.
// "https://host/play?problemSets=%7B...%7D".
func EncodeURL(base string, set model.ProblemSet) (string, error) {
	raw, err := json.Marshal(set)
	if err != nil {
		return "", fmt.Errorf("share: encode problem set: %w", err)
	}

	values := url.Values{}
	values.Set(ParamName, string(raw))
	return base + "/play?" + values.Encode(), nil
}

// DecodeURL parses a full play URL and decodes the problem set it carries.
func DecodeURL(raw string) (model.ProblemSet, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return model.ProblemSet{}, fmt.Errorf("malformed share URL: %w", common.ErrBadRequest)
	}
	return Decode(u.Query())
}

// Decode extracts and validates a problem set from play-URL query values. A
// missing parameter or a malformed payload is fatal for the session.
func Decode(values url.Values) (model.ProblemSet, error) {
	raw := values.Get(ParamName)
	if raw == "" {
		return model.ProblemSet{}, fmt.Errorf("ProblemSet not found: %w", common.ErrBadRequest)
	}

	var set model.ProblemSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		return model.ProblemSet{}, fmt.Errorf("malformed problem set payload: %w", common.ErrBadRequest)
	}
	if err := validate.Struct(set); err != nil {
		return model.ProblemSet{}, fmt.Errorf("invalid problem set payload: %v: %w", err, common.ErrValidation)
	}
	return set, nil
}
