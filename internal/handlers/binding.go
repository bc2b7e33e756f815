package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

var errEmptyBody = errors.New("request body is empty")

// BindNestedOrFlat decodes the JSON body into obj. Clients send either the
// bare object or the object wrapped under key ({"project": {...}}). The body
// is put back so later middleware can still read it.
func BindNestedOrFlat(c *gin.Context, key string, obj interface{}) error {
	body, err := c.GetRawData()
	if err != nil {
		return err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	if len(bytes.TrimSpace(body)) == 0 {
		return errEmptyBody
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err == nil {
		if inner, ok := envelope[key]; ok {
			return json.Unmarshal(inner, obj)
		}
	}
	return json.Unmarshal(body, obj)
}
