package validators

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/workshop-qa/models"
)

func entry(key, value string) models.Entry {
	return models.Entry{Key: key, Value: json.RawMessage(value)}
}

func TestNewEntryValidator(t *testing.T) {
	v := NewEntryValidator()
	require.NotNil(t, v)
}

func TestValidate_Dispatch(t *testing.T) {
	v := NewEntryValidator()
	ctx := context.Background()

	e := entry(models.CurrentIndexKey, "1")
	assert.NoError(t, v.Validate(ctx, e))
	assert.NoError(t, v.Validate(ctx, &e))

	req := models.SessionRequest{AccessCode: "rainbow"}
	assert.NoError(t, v.Validate(ctx, req))
	assert.NoError(t, v.Validate(ctx, &req))

	assert.ErrorIs(t, v.Validate(ctx, "string"), ErrUnsupportedType)
	assert.ErrorIs(t, v.Validate(ctx, 42), ErrUnsupportedType)
}

func TestValidate_Entry(t *testing.T) {
	v := NewEntryValidator()
	ctx := context.Background()

	tests := []struct {
		name    string
		entry   models.Entry
		wantErr error
	}{
		{name: "questions", entry: entry(models.QuestionsKey, `["A","B"]`)},
		{name: "empty questions", entry: entry(models.QuestionsKey, `[]`)},
		{name: "questions with numbers", entry: entry(models.QuestionsKey, `["A",1]`), wantErr: ErrInvalidValue},
		{name: "questions object", entry: entry(models.QuestionsKey, `{"0":"A"}`), wantErr: ErrInvalidValue},
		{name: "questions null", entry: entry(models.QuestionsKey, `null`), wantErr: ErrInvalidValue},
		{name: "index zero", entry: entry(models.CurrentIndexKey, `0`)},
		{name: "index positive", entry: entry(models.CurrentIndexKey, ` 12 `)},
		{name: "index negative", entry: entry(models.CurrentIndexKey, `-1`), wantErr: ErrInvalidValue},
		{name: "index fraction", entry: entry(models.CurrentIndexKey, `1.5`), wantErr: ErrInvalidValue},
		{name: "index string", entry: entry(models.CurrentIndexKey, `"1"`), wantErr: ErrInvalidValue},
		{name: "index empty", entry: entry(models.CurrentIndexKey, ``), wantErr: ErrInvalidValue},
		{
			name:  "responses",
			entry: entry(models.ResponsesKey(0), `[{"id":1,"answer":"x","likes":2,"checked":true,"timestamp":"10:00:00"}]`),
		},
		{name: "empty responses", entry: entry(models.ResponsesKey(3), `[]`)},
		{
			name:    "responses negative likes",
			entry:   entry(models.ResponsesKey(0), `[{"id":1,"answer":"x","likes":-1}]`),
			wantErr: ErrInvalidValue,
		},
		{name: "responses wrong shape", entry: entry(models.ResponsesKey(0), `["x"]`), wantErr: ErrInvalidValue},
		{name: "unknown key", entry: entry("workshop-secrets", `[]`), wantErr: ErrInvalidKey},
		{name: "padded responses key", entry: entry("workshop-responses-01", `[]`), wantErr: ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.entry)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate_EntryFieldScoping(t *testing.T) {
	v := NewEntryValidator()
	ctx := context.Background()

	// only the key is checked, the broken value is ignored
	assert.NoError(t, v.Validate(ctx, entry(models.QuestionsKey, `{`), FieldKey))
	assert.ErrorIs(t, v.Validate(ctx, entry("other", `[]`), FieldKey), ErrInvalidKey)
	assert.ErrorIs(t, v.Validate(ctx, entry(models.QuestionsKey, `[]`), "nope"), ErrUnknownField)
}

func TestValidate_SessionRequest(t *testing.T) {
	v := NewEntryValidator()
	ctx := context.Background()

	assert.ErrorIs(t, v.Validate(ctx, models.SessionRequest{}), ErrEmptyAccessCode)
	assert.ErrorIs(t, v.Validate(ctx, models.SessionRequest{AccessCode: strings.Repeat("x", 129)}), ErrAccessCodeTooLong)
	assert.ErrorIs(t, v.Validate(ctx, models.SessionRequest{AccessCode: "x"}, FieldKey), ErrUnknownField)
}
