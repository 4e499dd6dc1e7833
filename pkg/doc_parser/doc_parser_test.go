package doc_parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCoreAndReference(t *testing.T) {
	doc, err := Extract([]string{
		"! description",
		"!! first line.",
		":reference: SourceX a classic paper.",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"first line."}, doc.Core)
	assert.Equal(t, []Entry{{Key: "SourceX", Text: "a classic paper."}}, doc.References)
	assert.Empty(t, doc.History)
	assert.Empty(t, doc.Authors)
}

func TestExtractContinuation(t *testing.T) {
	doc, err := Extract([]string{
		"Computes the flux",
		"across a cell face.",
		":history: v2 rewritten",
		"for the new grid.",
		":author: Jane",
		"Doe",
		":advisor : John Roe",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Computes the flux across a cell face."}, doc.Core)
	assert.Equal(t, []Entry{{Key: "v2", Text: "rewritten for the new grid."}}, doc.History)
	assert.Equal(t, []string{"Jane Doe"}, doc.Authors)
	assert.Equal(t, []string{"John Roe"}, doc.Advisors)
}

func TestExtractSeparatedTagForms(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []Entry
	}{
		{
			name:  "colon prefixed tag",
			lines: []string{":reference: K1 text"},
			want:  []Entry{{Key: "K1", Text: "text"}},
		},
		{
			name:  "standalone colon",
			lines: []string{": reference K1 some text"},
			want:  []Entry{{Key: "K1", Text: "some text"}},
		},
		{
			name:  "separator after key",
			lines: []string{":reference K1 : some text"},
			want:  []Entry{{Key: "K1", Text: "some text"}},
		},
		{
			name:  "key with trailing colon",
			lines: []string{":reference: K1: some text"},
			want:  []Entry{{Key: "K1", Text: "some text"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Extract(tt.lines)
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.References)
		})
	}
}

func TestExtractMissingDescription(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		tag   string
	}{
		{name: "reference without text", lines: []string{"ok", ":reference: OnlyKey"}, tag: TagReference},
		{name: "history without key", lines: []string{":history:"}, tag: TagHistory},
		{name: "author without name", lines: []string{":author:"}, tag: TagAuthor},
		{name: "advisor with separator only", lines: []string{":advisor :"}, tag: TagAdvisor},
		{name: "unknown tag alone", lines: []string{":note:"}, tag: "note"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.lines)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingDescription))

			var missing *MissingDescriptionError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, tt.tag, missing.Tag)
		})
	}
}

func TestExtractBlankRuns(t *testing.T) {
	doc, err := Extract([]string{
		"first",
		"",
		"",
		"second",
		"!!",
		"third",
		"",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, doc.Core)
}

func TestExtractBlankLineKeepsTagOpen(t *testing.T) {
	doc, err := Extract([]string{
		":reference: R1 part one",
		"",
		"part two",
	})
	require.NoError(t, err)
	assert.Equal(t, "part one part two", doc.References[0].Text)
	assert.False(t, doc.HasCore())
}

func TestExtractUnknownTagClosesMode(t *testing.T) {
	doc, err := Extract([]string{
		":reference: R1 cited",
		":note: ignored",
		"back to core",
	})
	require.NoError(t, err)
	assert.Equal(t, "cited", doc.References[0].Text)
	assert.Equal(t, []string{"back to core"}, doc.Core)
}

func TestExtractDuplicateKeysOverwrite(t *testing.T) {
	doc, err := Extract([]string{
		":reference: A first",
		":reference: B second",
		":reference: A replaced",
	})
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Key: "A", Text: "replaced"}, {Key: "B", Text: "second"}}, doc.References)
}

func TestExtractKeepsAuthorOrder(t *testing.T) {
	doc, err := Extract([]string{
		":author: Zed",
		":author: Amy",
		":author: Max",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Zed", "Amy", "Max"}, doc.Authors)
}

func TestParseAnnotations(t *testing.T) {
	doc, err := ParseAnnotations("!! Solves the system.\n!!\n!! :author: Ada Lovelace\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"Solves the system."}, doc.Core)
	assert.Equal(t, []string{"Ada Lovelace"}, doc.Authors)
	assert.False(t, doc.Empty())
}

func TestExtractEmpty(t *testing.T) {
	doc, err := Extract(nil)
	require.NoError(t, err)
	assert.True(t, doc.Empty())
	assert.Empty(t, doc.Paragraphs())
}
