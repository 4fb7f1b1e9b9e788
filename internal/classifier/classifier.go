// Package classifier implements the business-relevance gate: a frozen
// TF-IDF vectorizer plus logistic-regression weights exported to a JSON
// artifact, loaded once at startup and read-only thereafter. Safe for
// concurrent use.
package classifier

import (
	"encoding/json"
	"math"
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

// Sentinel returned by Gate when text is classified as not business-relevant.
const NoBusinessContent = "No business-relevant content found."

// Model is a frozen binary text classifier.
type Model struct {
	vocabulary map[string]int
	idf        []float64
	coef       []float64
	intercept  float64
}

// artifact is the on-disk JSON shape of an exported model.
type artifact struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	Coef       []float64      `json:"coef"`
	Intercept  float64        `json:"intercept"`
}

// tokenRe matches word tokens of two or more characters, mirroring the
// vectorizer the artifact was trained with.
var tokenRe = regexp.MustCompile(`\b\w\w+\b`)

// Load reads a model artifact from disk.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "classifier: read model %s", path)
	}
	return Parse(data)
}

// Parse builds a Model from raw artifact JSON.
func Parse(data []byte) (*Model, error) {
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, eris.Wrap(err, "classifier: unmarshal model")
	}
	if len(a.Vocabulary) == 0 {
		return nil, eris.New("classifier: empty vocabulary")
	}
	if len(a.IDF) != len(a.Vocabulary) || len(a.Coef) != len(a.Vocabulary) {
		return nil, eris.Errorf("classifier: dimension mismatch: vocab=%d idf=%d coef=%d",
			len(a.Vocabulary), len(a.IDF), len(a.Coef))
	}
	return &Model{
		vocabulary: a.Vocabulary,
		idf:        a.IDF,
		coef:       a.Coef,
		intercept:  a.Intercept,
	}, nil
}

// vectorize produces the l2-normalized TF-IDF feature vector for text as a
// sparse index→weight map.
func (m *Model) vectorize(text string) map[int]float64 {
	counts := make(map[int]int)
	for _, tok := range tokenRe.FindAllString(strings.ToLower(text), -1) {
		if idx, ok := m.vocabulary[tok]; ok {
			counts[idx]++
		}
	}

	features := make(map[int]float64, len(counts))
	var norm float64
	for idx, c := range counts {
		w := float64(c) * m.idf[idx]
		features[idx] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range features {
			features[idx] /= norm
		}
	}
	return features
}

// Predict returns the class label (0 or 1) for text. Deterministic for
// identical input.
func (m *Model) Predict(text string) int {
	score := m.intercept
	for idx, w := range m.vectorize(text) {
		score += w * m.coef[idx]
	}
	if score >= 0 {
		return 1
	}
	return 0
}

// Gate returns text unchanged when it is classified business-relevant,
// otherwise the NoBusinessContent sentinel.
func (m *Model) Gate(text string) string {
	if m.Predict(text) == 1 {
		return text
	}
	return NoBusinessContent
}
