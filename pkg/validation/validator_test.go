package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inner struct {
	Index int `json:"index" binding:"position"`
}

type payload struct {
	Name  string `json:"name" binding:"required"`
	Pos   *int   `json:"pos" binding:"required,position"`
	Inner inner  `json:"inner"`
}

func TestToDetailsValidation(t *testing.T) {
	Init()
	neg := -2
	err := binding.Validator.ValidateStruct(&payload{Pos: &neg, Inner: inner{Index: -1}})
	require.Error(t, err)

	d := ToDetails(err)
	assert.Equal(t, "is required", d["name"])
	assert.Equal(t, "must be greater than or equal to 0", d["pos"])
	assert.Equal(t, "must be greater than or equal to 0", d["inner.index"])
}

func TestToDetailsValid(t *testing.T) {
	Init()
	zero := 0
	assert.NoError(t, binding.Validator.ValidateStruct(&payload{Name: "a", Pos: &zero}))
	assert.Nil(t, ToDetails(nil))
}

func TestToDetailsDecodeErrors(t *testing.T) {
	assert.Equal(t, map[string]string{"payload": "empty body"}, ToDetails(io.EOF))
	assert.Equal(t, map[string]string{"payload": "empty body"}, ToDetails(fmt.Errorf("bind: %w", io.EOF)))

	var v struct {
		Index int `json:"index"`
	}
	err := json.Unmarshal([]byte(`{"index":`), &v)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(io.ErrUnexpectedEOF))

	err = json.Unmarshal([]byte(`{"index":"x"}`), &v)
	assert.Equal(t, map[string]string{"index": "must be int"}, ToDetails(err))

	err = json.Unmarshal([]byte(`{bad}`), &v)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))

	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("boom")))
}
