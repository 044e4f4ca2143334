package ddl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColumnsCSV(t *testing.T) {
	csvText := `Name,Datatype,Length,Precision,Not-null,Status
BATCH_ID,NUMBER,,18,Yes,Active
PARTY_NAME,VARCHAR2,360,,Yes,Active
START_DATE,DATE,,,No,Active
NOTES,CLOB,,,,
`
	cols, err := ParseColumnsCSV(strings.NewReader(csvText))
	require.NoError(t, err)
	require.Len(t, cols, 4)

	assert.Equal(t, Column{Name: "BATCH_ID", Datatype: "NUMBER", Precision: "18", NotNull: true}, cols[0])
	assert.Equal(t, Column{Name: "PARTY_NAME", Datatype: "VARCHAR2", Length: "360", NotNull: true}, cols[1])
	assert.False(t, cols[2].NotNull)
}

func TestParseColumnsCSV_MissingHeader(t *testing.T) {
	_, err := ParseColumnsCSV(strings.NewReader("Name,Length\nA,10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Datatype" header`)
}

func TestParseColumnsCSV_Empty(t *testing.T) {
	_, err := ParseColumnsCSV(strings.NewReader("Name,Datatype\n"))
	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestColumnDef(t *testing.T) {
	tests := []struct {
		name string
		col  Column
		want string
	}{
		{
			name: "varchar2 with length",
			col:  Column{Name: "PARTY_NAME", Datatype: "VARCHAR2", Length: "360"},
			want: "    PARTY_NAME VARCHAR2(360)",
		},
		{
			name: "varchar2 fallback length",
			col:  Column{Name: "COMMENTS", Datatype: "VARCHAR2"},
			want: "    COMMENTS VARCHAR2(255)",
		},
		{
			name: "number with precision",
			col:  Column{Name: "BATCH_ID", Datatype: "NUMBER", Precision: "18"},
			want: "    BATCH_ID NUMBER(18)",
		},
		{
			name: "number without precision",
			col:  Column{Name: "AMOUNT", Datatype: "NUMBER"},
			want: "    AMOUNT NUMBER",
		},
		{
			name: "date passes through",
			col:  Column{Name: "START_DATE", Datatype: "DATE"},
			want: "    START_DATE DATE",
		},
		{
			name: "not null constraint",
			col:  Column{Name: "BATCH_ID", Datatype: "NUMBER", NotNull: true},
			want: "    BATCH_ID NUMBER NOT NULL",
		},
		{
			name: "unknown type used as-is",
			col:  Column{Name: "RAW_COL", Datatype: "raw(16)"},
			want: "    RAW_COL RAW(16)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ColumnDef(tt.col))
		})
	}
}

func TestColumnDefs(t *testing.T) {
	cols := []Column{
		{Name: "A", Datatype: "NUMBER"},
		{Name: "B", Datatype: "DATE"},
	}
	assert.Equal(t, "    A NUMBER,\n    B DATE", ColumnDefs(cols))
}
