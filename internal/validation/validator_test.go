package validation

import (
	"strings"
	"testing"

	"tubequiz/internal/dto"
	"tubequiz/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegisterRequest(t *testing.T) {
	v := NewValidator()

	testCases := []struct {
		name       string
		req        dto.RegisterRequest
		wantFields []string
	}{
		{
			name: "valid request",
			req:  dto.RegisterRequest{Username: "alice_01", Email: "alice@example.com", Password: "longenough"},
		},
		{
			name:       "everything missing",
			req:        dto.RegisterRequest{},
			wantFields: []string{"username", "email", "password"},
		},
		{
			name:       "username too short",
			req:        dto.RegisterRequest{Username: "al", Email: "a@b.com", Password: "longenough"},
			wantFields: []string{"username"},
		},
		{
			name:       "username with spaces",
			req:        dto.RegisterRequest{Username: "not allowed", Email: "a@b.com", Password: "longenough"},
			wantFields: []string{"username"},
		},
		{
			name:       "username too long",
			req:        dto.RegisterRequest{Username: strings.Repeat("a", 151), Email: "a@b.com", Password: "longenough"},
			wantFields: []string{"username"},
		},
		{
			name:       "bad email",
			req:        dto.RegisterRequest{Username: "alice", Email: "not-an-email", Password: "longenough"},
			wantFields: []string{"email"},
		},
		{
			name:       "short password",
			req:        dto.RegisterRequest{Username: "alice", Email: "a@b.com", Password: "seven77"},
			wantFields: []string{"password"},
		},
		{
			name:       "password beyond bcrypt input limit",
			req:        dto.RegisterRequest{Username: "alice", Email: "a@b.com", Password: strings.Repeat("p", 73)},
			wantFields: []string{"password"},
		},
		{
			name: "password at bcrypt input limit",
			req:  dto.RegisterRequest{Username: "alice", Email: "a@b.com", Password: strings.Repeat("p", 72)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			errs := v.ValidateRegisterRequest(&tc.req)
			require.Len(t, errs, len(tc.wantFields))
			for i, field := range tc.wantFields {
				assert.Equal(t, field, errs[i].Field)
			}
		})
	}
}

func TestValidateCreateQuizRequest(t *testing.T) {
	v := NewValidator()

	errs := v.ValidateCreateQuizRequest(&dto.CreateQuizRequest{URL: "https://youtu.be/x"})
	assert.Empty(t, errs)

	errs = v.ValidateCreateQuizRequest(&dto.CreateQuizRequest{URL: "   "})
	require.Len(t, errs, 1)
	assert.Equal(t, "url", errs[0].Field)

	errs = v.ValidateCreateQuizRequest(&dto.CreateQuizRequest{URL: "https://" + strings.Repeat("a", 500)})
	require.Len(t, errs, 1)
	assert.Equal(t, "url", errs[0].Field)
}

func TestValidateUpdateQuizRequest(t *testing.T) {
	v := NewValidator()
	title := "New Title"
	empty := "   "

	errs := v.ValidateUpdateQuizRequest(&dto.UpdateQuizRequest{Title: &title})
	assert.Empty(t, errs)

	errs = v.ValidateUpdateQuizRequest(&dto.UpdateQuizRequest{})
	require.Len(t, errs, 1)
	assert.Equal(t, "body", errs[0].Field)

	errs = v.ValidateUpdateQuizRequest(&dto.UpdateQuizRequest{Title: &empty})
	require.Len(t, errs, 1)
	assert.Equal(t, "title", errs[0].Field)

	errs = v.ValidateUpdateQuizRequest(&dto.UpdateQuizRequest{Questions: []dto.QuestionPayload{}})
	require.Len(t, errs, 1)
	assert.Equal(t, "questions", errs[0].Field)

	errs = v.ValidateUpdateQuizRequest(&dto.UpdateQuizRequest{Questions: []dto.QuestionPayload{
		{Text: "Q?", Options: []string{"a", "b"}, CorrectIndex: 0},
	}})
	require.Len(t, errs, 1)
	assert.Equal(t, "questions", errs[0].Field)

	errs = v.ValidateUpdateQuizRequest(&dto.UpdateQuizRequest{Questions: []dto.QuestionPayload{
		{Text: "Q?", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 4},
	}})
	require.Len(t, errs, 1)
}

func TestIsValidULID(t *testing.T) {
	assert.True(t, IsValidULID(util.NewULID()))
	assert.False(t, IsValidULID(""))
	assert.False(t, IsValidULID("too-short"))
	assert.False(t, IsValidULID(strings.Repeat("0", 25)))
	assert.False(t, IsValidULID(strings.Repeat("0", 27)))
	// I, L, O and U are not part of Crockford's alphabet.
	assert.False(t, IsValidULID("01ARZ3NDEKTSV4RRFFQ69G5FAI"))
	assert.False(t, IsValidULID("01arz3ndektsv4rrffq69g5fav"))
}
