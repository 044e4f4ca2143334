package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleControlFile = `LOAD DATA
INFILE 'suppliers.csv'
APPEND
INTO TABLE XX_SUPPLIER_STG
FIELDS TERMINATED BY ',' OPTIONALLY ENCLOSED BY '"'
TRAILING NULLCOLS
(
  SUPPLIER_NAME,
  ACTION_CODE CHAR(1),
  BATCH_ID,
  CREATION_DATE CONSTANT SYSDATE
)
`

func setupSpoolEnv(t *testing.T) (outDir string) {
	t.Helper()
	dir := t.TempDir()
	ctlPath := filepath.Join(dir, "loader.ctl")
	require.NoError(t, os.WriteFile(ctlPath, []byte(sampleControlFile), 0o600))
	outDir = filepath.Join(dir, "out")

	t.Setenv("IFACEGEN_TABLE_NAME", "XX_SUPPLIER_STG")
	t.Setenv("IFACEGEN_CONTROL_FILE", ctlPath)
	t.Setenv("IFACEGEN_OUTPUT_DIR", outDir)
	return outDir
}

func TestNewSpoolCommand(t *testing.T) {
	cmd := NewSpoolCommand()

	assert.Equal(t, "spool", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	for _, flag := range []string{"spool-path", "dry-run", "format"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestSpoolCommand_WritesQuery(t *testing.T) {
	outDir := setupSpoolEnv(t)

	cmd := NewSpoolCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	query, err := os.ReadFile(filepath.Join(outDir, "XX_SUPPLIER_STG_Spool_Query.sql"))
	require.NoError(t, err)
	q := string(query)

	assert.Contains(t, q, "SUPPLIER_NAME")
	assert.Contains(t, q, "ACTION_CODE")
	assert.Contains(t, q, "FROM XX_SUPPLIER_STG")
	assert.Contains(t, q, "WHERE STATUS = 'V'")
	assert.Contains(t, q, "BATCH_ID = :p_batch_id")
	assert.Contains(t, q, "SPOOL XX_SUPPLIER_STG_export.csv")
	// Constant columns never appear in the export.
	assert.NotContains(t, q, "CREATION_DATE")
}

func TestSpoolCommand_SpoolPathFlag(t *testing.T) {
	setupSpoolEnv(t)

	cmd := NewSpoolCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--dry-run", "--spool-path", "/u01/out/suppliers.csv"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "SPOOL /u01/out/suppliers.csv")
}

func TestSpoolCommand_JSONFormat(t *testing.T) {
	setupSpoolEnv(t)

	cmd := NewSpoolCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--dry-run", "--format", "json"})

	require.NoError(t, cmd.Execute())

	var summary spoolSummary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &summary))
	assert.Equal(t, []string{"SUPPLIER_NAME", "ACTION_CODE", "BATCH_ID"}, summary.Columns)
	assert.Equal(t, "BATCH_ID", summary.BatchColumn)
}

func TestSpoolCommand_BatchColumnOverride(t *testing.T) {
	setupSpoolEnv(t)
	t.Setenv("IFACEGEN_BATCH_COLUMN", "ACTION_CODE")

	cmd := NewSpoolCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--dry-run", "--format", "json"})

	require.NoError(t, cmd.Execute())

	var summary spoolSummary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &summary))
	assert.Equal(t, "ACTION_CODE", summary.BatchColumn)
}

func TestSpoolCommand_NoBatchColumn(t *testing.T) {
	dir := t.TempDir()
	ctlPath := filepath.Join(dir, "loader.ctl")
	require.NoError(t, os.WriteFile(ctlPath, []byte("INTO TABLE XX_STG\n(NAME, CODE)\n"), 0o600))
	t.Setenv("IFACEGEN_TABLE_NAME", "XX_STG")
	t.Setenv("IFACEGEN_CONTROL_FILE", ctlPath)
	t.Setenv("IFACEGEN_OUTPUT_DIR", filepath.Join(dir, "out"))

	cmd := NewSpoolCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch")
}

func TestSpoolCommand_MissingControlFile(t *testing.T) {
	t.Setenv("IFACEGEN_TABLE_NAME", "XX_STG")
	t.Setenv("IFACEGEN_CONTROL_FILE", "")

	cmd := NewSpoolCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "control_file")
}
