package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Len(t, c.Models, 12)
	assert.Len(t, c.Tasks, 3)
	assert.Equal(t, TaskID("BengaliDocumentClassification.v2"), c.DefaultTask())
}

func TestDefaultReturnsFreshSlices(t *testing.T) {
	c := Default()
	c.Models[0] = "mutated"
	assert.Equal(t, ModelID("cohere__embed-multilingual-v3.0"), Default().Models[0])
}

func TestIdentifierRoundTrip(t *testing.T) {
	for _, m := range Default().Models {
		assert.Equal(t, m, FromPath(m.Path()), "round trip of %s", m)
	}
}

func TestShortName(t *testing.T) {
	tests := []struct {
		id    ModelID
		short string
		full  string
	}{
		{"LaBSE", "LaBSE", "LaBSE"},
		{"sentence-transformers__LaBSE", "LaBSE", "sentence-transformers/LaBSE"},
		{"org__group__model-v2", "model-v2", "org/group/model-v2"},
		{"Qwen__Qwen3-Embedding-0.6B", "Qwen3-Embedding-0.6B", "Qwen/Qwen3-Embedding-0.6B"},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			assert.Equal(t, tt.short, tt.id.ShortName())
			assert.Equal(t, tt.full, tt.id.DisplayName())
		})
	}
}

func TestValidateRejectsDefects(t *testing.T) {
	tests := []struct {
		name    string
		catalog Catalog
		want    string
	}{
		{"empty id", Catalog{Models: []ModelID{""}}, "empty model id"},
		{"slash", Catalog{Models: []ModelID{"org/model"}}, "path separator"},
		{"duplicate", Catalog{Models: []ModelID{"a__b", "a__b"}}, "duplicate model id"},
		{"duplicate task", Catalog{Tasks: []Task{{ID: "T1"}, {ID: "T1"}}}, "duplicate task id"},
		{"empty task", Catalog{Tasks: []Task{{}}}, "empty task id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.catalog.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTaskLookup(t *testing.T) {
	c := Default()
	task, ok := c.Task("BengaliSentimentAnalysis.v2")
	require.True(t, ok)
	assert.Equal(t, "Sentiment Analysis", task.Name)

	_, ok = c.Task("Nope")
	assert.False(t, ok)

	assert.True(t, c.HasModel("Qwen__Qwen3-Embedding-8B"))
	assert.False(t, c.HasModel("Qwen__Qwen3-Embedding-9B"))
	assert.Equal(t, []TaskID{
		"BengaliDocumentClassification.v2",
		"BengaliHateSpeechClassification.v2",
		"BengaliSentimentAnalysis.v2",
	}, c.TaskIDs())
}

func TestModelURL(t *testing.T) {
	assert.Equal(t,
		"https://huggingface.co/Cohere/Cohere-embed-multilingual-v3.0",
		ModelURL("cohere__embed-multilingual-v3.0"))
	assert.Equal(t,
		"https://huggingface.co/intfloat/multilingual-e5-base",
		ModelURL("intfloat__multilingual-e5-base"))
}

func TestURLResolverOverrides(t *testing.T) {
	r := NewURLResolver("https://mirror.example.org", map[ModelID]string{
		"sentence-transformers__LaBSE": "https://example.org/labse",
	})
	assert.Equal(t, "https://example.org/labse", r.ModelURL("sentence-transformers__LaBSE"))
	assert.Equal(t, "https://mirror.example.org/Qwen/Qwen3-Embedding-4B", r.ModelURL("Qwen__Qwen3-Embedding-4B"))
	// built-in entries survive a custom base
	assert.Equal(t,
		"https://huggingface.co/Cohere/Cohere-embed-multilingual-v3.0",
		r.ModelURL("cohere__embed-multilingual-v3.0"))
}
