package mapping

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSheet_Basic(t *testing.T) {
	sheet := `Field,Mandatory,Validations,Transformations
BATCH_ID,Yes,,
PARTY_NAME,Yes,length must not exceed 360,Trim leading spaces
ACTION_CODE,No,should only be 'I' or 'U',
`
	rules, err := ParseSheet(strings.NewReader(sheet))
	require.NoError(t, err)
	require.Len(t, rules, 3)

	assert.Equal(t, "BATCH_ID", rules[0].Field)
	assert.True(t, rules[0].Mandatory)
	assert.Empty(t, rules[0].Validation)

	assert.Equal(t, "PARTY_NAME", rules[1].Field)
	assert.True(t, rules[1].Mandatory)
	assert.Equal(t, "length must not exceed 360", rules[1].Validation)
	assert.Equal(t, "Trim leading spaces", rules[1].Transformation)

	assert.Equal(t, "ACTION_CODE", rules[2].Field)
	assert.False(t, rules[2].Mandatory)
	assert.Equal(t, "should only be 'I' or 'U'", rules[2].Validation)
}

func TestParseSheet_MandatoryCaseInsensitive(t *testing.T) {
	sheet := `Field,Mandatory
A,yes
B,YES
C,No
D,
`
	rules, err := ParseSheet(strings.NewReader(sheet))
	require.NoError(t, err)
	require.Len(t, rules, 4)
	assert.True(t, rules[0].Mandatory)
	assert.True(t, rules[1].Mandatory)
	assert.False(t, rules[2].Mandatory)
	assert.False(t, rules[3].Mandatory)
}

func TestParseSheet_SkipsEmptyFieldRows(t *testing.T) {
	sheet := `Field,Mandatory
A,Yes
,Yes
B,No
`
	rules, err := ParseSheet(strings.NewReader(sheet))
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "A", rules[0].Field)
	assert.Equal(t, "B", rules[1].Field)
}

func TestParseSheet_MissingFieldHeader(t *testing.T) {
	sheet := `Name,Mandatory
A,Yes
`
	_, err := ParseSheet(strings.NewReader(sheet))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Field" header`)
}

func TestParseSheet_DuplicateFieldIsError(t *testing.T) {
	sheet := `Field,Mandatory
PARTY_ID,Yes
party_id,No
`
	_, err := ParseSheet(strings.NewReader(sheet))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate field")
	assert.Contains(t, err.Error(), "row 3")
}

func TestParseSheet_Empty(t *testing.T) {
	_, err := ParseSheet(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoRules)

	_, err = ParseSheet(strings.NewReader("Field,Mandatory\n"))
	assert.ErrorIs(t, err, ErrNoRules)
}

func TestParseSheet_StripsBOM(t *testing.T) {
	sheet := "\uFEFFField,Mandatory\nA,Yes\n"
	rules, err := ParseSheet(strings.NewReader(sheet))
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "A", rules[0].Field)
}

func TestParseSheet_OptionalColumnsAbsent(t *testing.T) {
	sheet := "Field\nA\nB\n"
	rules, err := ParseSheet(strings.NewReader(sheet))
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.False(t, rules[0].Mandatory)
	assert.Empty(t, rules[0].Validation)
}

func TestDetectBatchColumn(t *testing.T) {
	col, err := DetectBatchColumn([]string{"PARTY_T_ID", "BATCH_ID", "PARTY_NAME"})
	require.NoError(t, err)
	assert.Equal(t, "BATCH_ID", col)
}

func TestDetectBatchColumn_FirstMatchWins(t *testing.T) {
	col, err := DetectBatchColumn([]string{"LOAD_BATCH_NUM", "BATCH_ID"})
	require.NoError(t, err)
	assert.Equal(t, "LOAD_BATCH_NUM", col)
}

func TestDetectBatchColumn_CaseInsensitive(t *testing.T) {
	col, err := DetectBatchColumn([]string{"party_id", "batch_id"})
	require.NoError(t, err)
	assert.Equal(t, "batch_id", col)
}

func TestDetectBatchColumn_NotFound(t *testing.T) {
	_, err := DetectBatchColumn([]string{"PARTY_ID", "PARTY_NAME"})
	assert.ErrorIs(t, err, ErrBatchColumnNotFound)
}
