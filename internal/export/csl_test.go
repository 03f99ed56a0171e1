package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/AyaanShaheer/cite-engine/pkg/types"
)

func TestWriteCSL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleRecord(), FormatCSL))

	var items []CSLItem
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "vaswani2017", item.ID)
	assert.Equal(t, "article-journal", item.Type)
	assert.Equal(t, "Attention Is All You Need", item.Title)
	assert.Equal(t, "NeurIPS", item.Container)
	assert.Equal(t, "30", item.Volume)
	assert.Equal(t, "5998-6008", item.Page)
	assert.Equal(t, "10.5555/3295222.3295349", item.DOI)

	require.Len(t, item.Author, 1)
	assert.Equal(t, "Vaswani", item.Author[0].Family)
	assert.Equal(t, "Ashish", item.Author[0].Given)

	require.NotNil(t, item.Issued)
	assert.Equal(t, [][]int{{2017}}, item.Issued.DateParts)
}

func TestWriteCSLWithoutMetadata(t *testing.T) {
	rec := sampleRecord()
	rec.Metadata = nil

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rec, FormatCSL))

	var items []CSLItem
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "document", items[0].Type)
	assert.Equal(t, rec.Citation.Citation, items[0].Note)
	assert.Empty(t, items[0].Author)
}

func TestToCSLItemInstitutionFillsPublisher(t *testing.T) {
	rec := Record{
		Metadata: &types.SourceMetadata{
			SourceType:  types.SourceThesis,
			Title:       "A Thesis",
			Authors:     []types.Author{{FirstName: "Jane", LastName: "Smith"}},
			Institution: "MIT",
		},
	}
	item := toCSLItem(rec)
	assert.Equal(t, "thesis", item.Type)
	assert.Equal(t, "MIT", item.Publisher)
}

func TestCSLTypeCoversAllSourceTypes(t *testing.T) {
	seen := map[string]bool{}
	for _, st := range types.SourceTypes {
		ct := cslType(st)
		assert.NotEmpty(t, ct)
		seen[ct] = true
	}
	// Every source type should map to a distinct CSL type.
	assert.Len(t, seen, len(types.SourceTypes))
}
