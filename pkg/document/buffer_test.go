package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/syntaxdoc/pkg/document"
)

func TestBuffer(t *testing.T) {
	t.Parallel()

	buf := document.NewBuffer("SELECT 1")
	require.NoError(t, buf.Replace(7, 1, "42"))
	assert.Equal(t, "SELECT 42", buf.String())
	assert.Equal(t, 9, buf.Len())

	s, err := buf.Slice(0, 6)
	require.NoError(t, err)
	assert.Equal(t, "SELECT", s)

	require.Error(t, buf.Replace(8, 5, ""))
	assert.Equal(t, "SELECT 42", buf.String())

	_, err = buf.Slice(-1, 1)
	require.Error(t, err)

	buf.Set("")
	assert.Equal(t, 0, buf.Len())
}

func TestParseStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "none", document.ParseNone.String())
	assert.Equal(t, "complete", document.ParseComplete.String())
	assert.Equal(t, "partial", document.ParsePartial.String())
	assert.Equal(t, "ParseStatus(9)", document.ParseStatus(9).String())
}
