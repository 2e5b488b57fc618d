package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Rodrymza/app-novedades/pkg/util"
)

func TestParseID(t *testing.T) {
	id, err := parseID(" 6F9619FF-8B86-D011-B42D-00C04FC964FF ", "id")
	require.NoError(t, err)
	assert.Equal(t, "6f9619ff-8b86-d011-b42d-00c04fc964ff", id)

	_, err = parseID("42", "area")
	requireCode(t, err, apperrors.CodeBadRequest)
	assert.Contains(t, detailOf(err), "'area'")
}

func TestNormalizePersonName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"juan", "Juan", false},
		{"  ANA   maría ", "Ana María", false},
		{"ñandú", "Ñandú", false},
		{"J", "", true},
		{"R2D2", "", true},
		{"o'neil", "", true},
		{strings.Repeat("a", 51), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizePersonName(tt.in, "nombre")
			if tt.wantErr {
				requireCode(t, err, apperrors.CodeValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeContactFields(t *testing.T) {
	email, err := normalizeEmail(" Ana@Mail.COM ")
	require.NoError(t, err)
	assert.Equal(t, "ana@mail.com", email)
	_, err = normalizeEmail("ana@mail")
	requireCode(t, err, apperrors.CodeValidation)

	username, err := normalizeUsername(" JPerez ")
	require.NoError(t, err)
	assert.Equal(t, "jperez", username)
	_, err = normalizeUsername("j perez")
	requireCode(t, err, apperrors.CodeValidation)

	_, err = normalizeDocument("   ")
	requireCode(t, err, apperrors.CodeValidation)
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "a"}, normalizeTags([]string{" a", "", "b ", "  ", "a"}))
	assert.Equal(t, []string{}, normalizeTags(nil))
}
