package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rating struct {
	Rate float64 `json:"rate" validate:"gte=0,lte=5"`
}

type item struct {
	ID     int64  `json:"id" validate:"required,gte=1"`
	Title  string `json:"title" validate:"required,max=10"`
	Kind   string `json:"kind,omitempty" validate:"omitempty,oneof=a b"`
	Rating rating `json:"rating"`
	Secret string `json:"-" validate:"max=3"`
}

func TestValidate_Success(t *testing.T) {
	err := Validate(item{ID: 1, Title: "lamp", Rating: rating{Rate: 4.5}})
	assert.NoError(t, err)
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	err := Validate(item{Title: "lamp"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["id"])
	assert.NotContains(t, fields, "ID")
}

func TestValidate_NestedPath(t *testing.T) {
	err := Validate(item{ID: 1, Title: "lamp", Rating: rating{Rate: 7}})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be less than or equal to 5", valErr.Fields()["rating.rate"])
	assert.Contains(t, err.Error(), "field 'rating.rate'")
}

func TestValidate_Messages(t *testing.T) {
	err := Validate(item{ID: 1, Title: "a very long title", Kind: "z"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Equal(t, "must be at most 10", fields["title"])
	assert.Equal(t, "must be one of: a b", fields["kind"])
}

func TestValidate_SkippedJSONFieldFallsBackToGoName(t *testing.T) {
	err := Validate(item{ID: 1, Title: "lamp", Secret: "toolong"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be at most 3", valErr.Fields()["Secret"])
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"id":3,"title":"mug","rating":{"rate":1}}`, ""},
		{"empty body", ``, "empty body"},
		{"malformed", `{"id":`, "decode request body"},
		{"wrong type", `{"id":"three"}`, "decode request body"},
		{"invalid", `{"id":0,"title":"mug"}`, "field 'id'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst item
			err := DecodeAndValidate(r, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, int64(3), dst.ID)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDecodeAndValidate_BodyTooLarge(t *testing.T) {
	big := `{"id":1,"title":"` + strings.Repeat("x", MaxBodyBytes) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))

	var dst item
	err := DecodeAndValidate(r, &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}
