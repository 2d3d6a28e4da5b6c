package semantic

import (
	"context"
	"math"
	"testing"

	"github.com/hsn0918/docindex/internal/clients/embedding"
)

type fakeEmbedder struct {
	dim int
}

func (f fakeEmbedder) CreateBatchEmbedding(model string, texts []string) (*embedding.Response, error) {
	data := make([]embedding.Data, len(texts))
	for i := range texts {
		vec := make([]float64, f.dim)
		for d := range vec {
			vec[d] = float64(d + 1)
		}
		data[i] = embedding.Data{Embedding: vec, Index: i}
	}
	return &embedding.Response{Data: data}, nil
}

func TestEmbedTextsNormalizesAndBatches(t *testing.T) {
	texts := make([]string, 60) // spans 3 batches of 24/24/12
	for i := range texts {
		texts[i] = "chunk text"
	}
	vectors, err := EmbedTexts(context.Background(), fakeEmbedder{dim: 4}, "model", texts)
	if err != nil {
		t.Fatal(err)
	}
	if len(vectors) != len(texts) {
		t.Fatalf("expected %d vectors, got %d", len(texts), len(vectors))
	}
	for _, v := range vectors {
		var sumSq float64
		for _, x := range v {
			sumSq += float64(x) * float64(x)
		}
		norm := math.Sqrt(sumSq)
		if math.Abs(norm-1.0) > 1e-5 {
			t.Fatalf("expected unit-normalized vector, got norm %f", norm)
		}
	}
}

func TestComposeChunkTextTruncates(t *testing.T) {
	huge := make([]byte, 2000)
	for i := range huge {
		huge[i] = 'x'
	}
	text := composeChunkText("h", "a", string(huge), "rel", "file.docx")
	if len([]rune(text)) > TruncateCodepoints {
		t.Fatalf("expected truncation to %d codepoints, got %d", TruncateCodepoints, len([]rune(text)))
	}
}
