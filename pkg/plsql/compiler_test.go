package plsql

import (
	"strings"
	"testing"

	"github.com/datapour/ifacegen/pkg/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOpts = Options{TableName: "XX_SUPPLIER_STG", BatchColumn: "BATCH_ID"}

func compileOne(t *testing.T, rule mapping.FieldRule) CompiledRule {
	t.Helper()
	res, err := Compile([]mapping.FieldRule{rule}, testOpts)
	require.NoError(t, err)
	require.Len(t, res.Rules, 1)
	return res.Rules[0]
}

func TestCompile_MandatoryFields(t *testing.T) {
	fields := []mapping.FieldRule{
		{Field: "BATCH_ID", Mandatory: true},
		{Field: "PARTY_NAME", Mandatory: true},
		{Field: "PARTY_NUMBER", Mandatory: true},
		{Field: "COMMENTS", Mandatory: false},
	}

	res, err := Compile(fields, testOpts)
	require.NoError(t, err)

	mand := res.ByPhase(PhaseMandatory)
	require.Len(t, mand, 2, "batch column and non-mandatory fields are excluded")

	assert.Equal(t, "PARTY_NAME", mand[0].Field)
	assert.Equal(t, "PARTY_NUMBER", mand[1].Field)

	for _, c := range mand {
		assert.False(t, c.IsTODO())
		assert.Contains(t, c.SQL, "UPDATE XX_SUPPLIER_STG t")
		assert.Contains(t, c.SQL, "WHERE t.BATCH_ID = p_batch_id")
		assert.Contains(t, c.SQL, "AND t."+c.Field+" IS NULL;")
		assert.Contains(t, c.SQL, c.Field+" is mandatory and cannot be NULL; ")
		assert.Empty(t, c.Warnings)
	}

	// Checks are numbered in input order.
	assert.Contains(t, mand[0].SQL, "-- 1. Mandatory: PARTY_NAME")
	assert.Contains(t, mand[1].SQL, "-- 2. Mandatory: PARTY_NUMBER")
}

func TestCompile_BatchColumnSkipIsCaseInsensitive(t *testing.T) {
	res, err := Compile([]mapping.FieldRule{{Field: "batch_id", Mandatory: true}}, testOpts)
	require.NoError(t, err)
	assert.Empty(t, res.ByPhase(PhaseMandatory))
}

func TestCompile_AllowedValues(t *testing.T) {
	c := compileOne(t, mapping.FieldRule{Field: "ACTION_CODE", Validation: "should only be 'I' or 'U'"})

	assert.Equal(t, PhaseValidation, c.Phase)
	assert.Equal(t, "allowed-values", c.Pattern)
	assert.False(t, c.IsTODO())
	assert.Contains(t, c.SQL, "AND t.ACTION_CODE NOT IN ('I', 'U');")
	assert.Contains(t, c.SQL, "ACTION_CODE must be one of (''I'', ''U''); ")
	assert.NotContains(t, c.SQL, "IS NOT NULL")
}

func TestCompile_AllowedValues_LiteralOrderPreserved(t *testing.T) {
	c := compileOne(t, mapping.FieldRule{Field: "STATE", Validation: "must only be 'Z', 'A' or 'M'"})
	assert.Contains(t, c.SQL, "NOT IN ('Z', 'A', 'M')")
}

func TestCompile_ConditionalAllowedValues(t *testing.T) {
	c := compileOne(t, mapping.FieldRule{
		Field:      "TAX_CODE",
		Validation: "If NOT NULL, then should only be 'VAT' or 'GST'",
	})

	assert.Equal(t, "conditional-allowed-values", c.Pattern)
	assert.Contains(t, c.SQL, "AND t.TAX_CODE IS NOT NULL")
	assert.Contains(t, c.SQL, "AND t.TAX_CODE NOT IN ('VAT', 'GST');")
	// The null guard comes before the membership predicate.
	assert.Less(t,
		strings.Index(c.SQL, "IS NOT NULL"),
		strings.Index(c.SQL, "NOT IN"))
}

func TestCompile_Numeric(t *testing.T) {
	c := compileOne(t, mapping.FieldRule{Field: "AMOUNT", Validation: "must be numeric"})

	assert.Equal(t, "numeric-only", c.Pattern)
	assert.Contains(t, c.SQL, `AND NOT REGEXP_LIKE(t.AMOUNT, '^[0-9]+(\.[0-9]+)?$');`)
	assert.Contains(t, c.SQL, "AND t.AMOUNT IS NOT NULL")

	c = compileOne(t, mapping.FieldRule{Field: "QTY", Validation: "Should be a number"})
	assert.Equal(t, "numeric-only", c.Pattern)
}

func TestCompile_MaxLength(t *testing.T) {
	c := compileOne(t, mapping.FieldRule{Field: "PARTY_NAME", Validation: "length must not exceed 30"})

	assert.Equal(t, "max-length", c.Pattern)
	assert.Contains(t, c.SQL, "AND LENGTH(t.PARTY_NAME) > 30;")
	assert.Contains(t, c.SQL, "PARTY_NAME exceeds maximum length of 30; ")
}

func TestCompile_NoSpecialCharacters(t *testing.T) {
	c := compileOne(t, mapping.FieldRule{Field: "VENDOR_NAME", Validation: "cannot contain special characters"})

	assert.Equal(t, "no-special-characters", c.Pattern)
	assert.Contains(t, c.SQL, "AND LENGTH(t.VENDOR_NAME) != LENGTHB(t.VENDOR_NAME);")
}

func TestCompile_CrossTableExists(t *testing.T) {
	c := compileOne(t, mapping.FieldRule{
		Field:      "PARTY_NUMBER",
		Validation: "must exist in HZ_PARTIES.PARTY_NUMBER",
	})

	assert.Equal(t, "cross-table-exists", c.Pattern)
	assert.Contains(t, c.SQL, "AND NOT EXISTS (")
	assert.Contains(t, c.SQL, "SELECT 1 FROM HZ_PARTIES ref")
	assert.Contains(t, c.SQL, "WHERE ref.PARTY_NUMBER = t.PARTY_NUMBER")
	assert.Contains(t, c.SQL, "PARTY_NUMBER does not exist in HZ_PARTIES; ")
}

func TestCompile_UnmatchedValidationBecomesTODO(t *testing.T) {
	rule := "must be a valid geocode per internal spec"
	c := compileOne(t, mapping.FieldRule{Field: "GEO_CODE", Validation: rule})

	assert.True(t, c.IsTODO())
	assert.Empty(t, c.SQL, "never guess a predicate for unmatched text")
	assert.Empty(t, c.Pattern)
	assert.Contains(t, c.TODO, rule, "original text is preserved verbatim")
	assert.Contains(t, c.TODO, "-- TODO: Implement validation for GEO_CODE")
}

func TestCompile_TransformationsAlwaysTODO(t *testing.T) {
	c := compileOne(t, mapping.FieldRule{
		Field:          "PARTY_NAME",
		Transformation: "Convert to uppercase",
	})

	assert.Equal(t, PhaseTransformation, c.Phase)
	assert.True(t, c.IsTODO())
	assert.Contains(t, c.TODO, "-- TODO: Implement transformation for PARTY_NAME: Convert to uppercase")
	assert.Contains(t, c.TODO, "-- SET t.PARTY_NAME = <transformed_value>")
}

func TestCompile_PhaseOrder(t *testing.T) {
	fields := []mapping.FieldRule{
		{Field: "A", Mandatory: true, Validation: "must be numeric", Transformation: "uppercase"},
		{Field: "B", Validation: "length must not exceed 5"},
	}

	res, err := Compile(fields, testOpts)
	require.NoError(t, err)
	require.Len(t, res.Rules, 4)

	assert.Equal(t, PhaseMandatory, res.Rules[0].Phase)
	assert.Equal(t, PhaseValidation, res.Rules[1].Phase)
	assert.Equal(t, "A", res.Rules[1].Field)
	assert.Equal(t, PhaseValidation, res.Rules[2].Phase)
	assert.Equal(t, "B", res.Rules[2].Field)
	assert.Equal(t, PhaseTransformation, res.Rules[3].Phase)
}

func TestCompile_Deterministic(t *testing.T) {
	fields := []mapping.FieldRule{
		{Field: "BATCH_ID", Mandatory: true},
		{Field: "PARTY_NAME", Mandatory: true, Validation: "length must not exceed 360"},
		{Field: "ACTION_CODE", Validation: "should only be 'I' or 'U'"},
		{Field: "GEO_CODE", Validation: "must be a valid geocode"},
		{Field: "AMOUNT", Transformation: "Round to two decimals"},
	}

	first, err := Compile(fields, testOpts)
	require.NoError(t, err)
	second, err := Compile(fields, testOpts)
	require.NoError(t, err)

	require.Equal(t, len(first.Rules), len(second.Rules))
	for i := range first.Rules {
		assert.Equal(t, first.Rules[i], second.Rules[i])
	}
	for _, p := range []Phase{PhaseMandatory, PhaseValidation, PhaseTransformation} {
		assert.Equal(t, first.Section(p), second.Section(p))
	}
}

func TestCompile_RequiresIdentifiers(t *testing.T) {
	_, err := Compile(nil, Options{BatchColumn: "BATCH_ID"})
	assert.Error(t, err)

	_, err = Compile(nil, Options{TableName: "T"})
	assert.Error(t, err)
}

func TestCompile_EscapesQuotes(t *testing.T) {
	c := compileOne(t, mapping.FieldRule{Field: "O'BRIEN_FLAG", Mandatory: true})
	assert.Contains(t, c.SQL, "O''BRIEN_FLAG is mandatory")
}

func TestResult_Sections(t *testing.T) {
	res, err := Compile([]mapping.FieldRule{{Field: "A", Mandatory: true}}, testOpts)
	require.NoError(t, err)

	assert.Contains(t, res.Section(PhaseMandatory), "-- 1. Mandatory: A")
	assert.Equal(t, indent+"-- No custom validation rules defined.\n", res.Section(PhaseValidation))
	assert.Equal(t, indent+"-- No transformation rules defined.\n", res.Section(PhaseTransformation))
}

func TestResult_TODOCount(t *testing.T) {
	fields := []mapping.FieldRule{
		{Field: "A", Validation: "must be numeric"},
		{Field: "B", Validation: "some unmatched rule"},
		{Field: "C", Transformation: "uppercase"},
	}
	res, err := Compile(fields, testOpts)
	require.NoError(t, err)
	assert.Equal(t, 2, res.TODOCount())
}
