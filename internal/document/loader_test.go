package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSupported(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"guide.pdf", true},
		{"GUIDE.PDF", true},
		{"notes.Txt", true},
		{"notes.md", false},
		{"archive.pdf.zip", false},
		{"noext", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSupported(tt.name))
		})
	}
}

func TestLoad_Text(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "upload-1234")
	require.NoError(t, os.WriteFile(path, []byte("A savings account earns interest."), 0o644))

	doc, err := Load(path, "Banking.txt")
	require.NoError(t, err)

	assert.Equal(t, "Banking.txt", doc.Source)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, 1, doc.Pages[0].Number)
	assert.Equal(t, "A savings account earns interest.", doc.Pages[0].Text)
	assert.False(t, doc.IsEmpty())
}

func TestLoad_SourceDefaultsToBaseName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faq.txt")
	require.NoError(t, os.WriteFile(path, []byte("   \n"), 0o644))

	doc, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "faq.txt", doc.Source)
	assert.True(t, doc.IsEmpty())
}

func TestLoad_Unsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b"), 0o644))

	_, err := Load(path, "")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "gone.txt"), "")
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestLoad_CorruptPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	_, err := Load(path, "")
	assert.ErrorIs(t, err, ErrUnreadable)
}
