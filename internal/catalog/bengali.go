package catalog

// MTEBNote closes the task descriptions on the dashboard.
const MTEBNote = "All evaluations follow the MTEB (Massive Text Embedding Benchmark) framework. " +
	"Scores represent performance on test splits. Higher scores indicate better performance."

var bengaliModels = []ModelID{
	"cohere__embed-multilingual-v3.0",
	"intfloat__multilingual-e5-base",
	"intfloat__multilingual-e5-large-instruct",
	"Lajavaness__bilingual-embedding-base",
	"Lajavaness__bilingual-embedding-large",
	"omarelshehy__arabic-english-sts-matryoshka",
	"OrdalieTech__Solon-embeddings-large-0.1",
	"Qwen__Qwen3-Embedding-0.6B",
	"Qwen__Qwen3-Embedding-4B",
	"Qwen__Qwen3-Embedding-8B",
	"sentence-transformers__LaBSE",
	"Snowflake__snowflake-arctic-embed-l-v2.0",
}

var bengaliTasks = []Task{
	{
		ID:            "BengaliDocumentClassification.v2",
		Name:          "Document Classification",
		PrimaryMetric: "accuracy",
		Description: "A Bengali news classification benchmark consisting of articles categorized into " +
			"13 topical domains. The task evaluates document-level semantic understanding in Bengali " +
			"news text, with **accuracy** as the main evaluation metric.",
		Citation: "Akash, Abu Ubaida, Mir Tafseer Nayeem, Faisal Tareque Shohan, and Tanvir Islam. 2023. " +
			"Shironaam: Bengali News Headline Generation using Auxiliary Information. In Proceedings of " +
			"the 17th Conference of the European Chapter of the Association for Computational Linguistics (EACL).",
	},
	{
		ID:            "BengaliHateSpeechClassification.v2",
		Name:          "Hate Speech Detection",
		PrimaryMetric: "f1",
		Description: "A Bengali-language hate speech classification benchmark with expert-annotated news " +
			"articles. The task measures a model's ability to identify hate and toxic content in " +
			"under-resourced Bengali text, evaluated using **F1** score.",
		Citation: "Karim, Md. Rezaul, Bharathi Raja Chakravarti, John P. McCrae, and Michael Cochez. 2020. " +
			"Classification Benchmarks for Under-resourced Bengali Language. In Proceedings of the IEEE " +
			"International Conference on Data Science and Advanced Analytics (DSAA).",
	},
	{
		ID:            "BengaliSentimentAnalysis.v2",
		Name:          "Sentiment Analysis",
		PrimaryMetric: "f1",
		Description: "A sentiment classification benchmark consisting of Bengali user-generated reviews " +
			"annotated for sentiment polarity. The task evaluates sentiment understanding in low-resource " +
			"Bengali text using **F1** score.",
		Citation: "Sazzed, Salim. 2020. Cross-lingual Sentiment Classification in Low-resource Bengali " +
			"Language. In Proceedings of the Sixth Workshop on Noisy User-generated Text (W-NUT).",
	},
}

// Default returns the Bengali embedding leaderboard catalog. Each call returns
// fresh slices so callers may not alter the shared enumeration.
func Default() *Catalog {
	models := make([]ModelID, len(bengaliModels))
	copy(models, bengaliModels)
	tasks := make([]Task, len(bengaliTasks))
	copy(tasks, bengaliTasks)
	return &Catalog{Models: models, Tasks: tasks}
}
