package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type importedQuestion struct {
	Answer string `json:"answer" binding:"required,answer_key"`
}

type importedPaper struct {
	ID        string             `json:"id" binding:"required,slug"`
	Questions []importedQuestion `json:"questions" binding:"required,min=1,dive"`
}

func TestCustomRules(t *testing.T) {
	v := Engine()
	require.NotNil(t, v)

	ok := importedPaper{ID: "jee-main-2023", Questions: []importedQuestion{{Answer: "B"}}}
	require.NoError(t, v.Struct(ok))

	bad := importedPaper{ID: "JEE 2023", Questions: []importedQuestion{{Answer: "B"}, {Answer: "b"}}}
	err := v.Struct(bad)
	require.Error(t, err)

	fields := TranslateErrors(err)
	assert.Contains(t, fields, "id")
	assert.Contains(t, fields, "questions[1].answer")
	assert.Equal(t, "answer must be a single option letter A-Z", fields["questions[1].answer"])
}

func TestTranslateNonValidationError(t *testing.T) {
	fields := TranslateErrors(assert.AnError)
	assert.Equal(t, map[string]string{"detail": assert.AnError.Error()}, fields)
}
