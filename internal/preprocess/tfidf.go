package preprocess

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// tokenPattern mirrors the default "two or more word characters" tokenizer.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Norm values accepted by TfidfVectorizer.
const (
	NormL2   = "l2"
	NormL1   = "l1"
	NormNone = ""
)

// TfidfVectorizer converts a document into TF-IDF weights over a fixed
// vocabulary. Terms outside the vocabulary are ignored.
type TfidfVectorizer struct {
	Vocabulary  map[string]int
	IDF         []float64
	StopWords   []string
	Norm        string
	NgramMin    int
	NgramMax    int
	Lowercase   bool
	SublinearTF bool
}

// Width returns the number of output columns.
func (v *TfidfVectorizer) Width() int {
	if v == nil {
		return 0
	}
	return len(v.IDF)
}

// Transform vectorizes doc.
func (v *TfidfVectorizer) Transform(doc string) ([]float64, error) {
	if err := v.validate(); err != nil {
		return nil, err
	}

	counts := make(map[int]float64)
	for _, term := range v.terms(doc) {
		if idx, ok := v.Vocabulary[term]; ok {
			counts[idx]++
		}
	}

	out := make([]float64, len(v.IDF))
	for idx, tf := range counts {
		if v.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		out[idx] = tf * v.IDF[idx]
	}

	switch v.Norm {
	case NormL2:
		normalize(out, func(x float64) float64 { return x * x }, math.Sqrt)
	case NormL1:
		normalize(out, math.Abs, func(x float64) float64 { return x })
	case NormNone:
	default:
		return nil, fmt.Errorf("tfidf: unsupported norm %q", v.Norm)
	}
	return out, nil
}

func (v *TfidfVectorizer) validate() error {
	if v == nil || len(v.Vocabulary) == 0 {
		return fmt.Errorf("tfidf: %w", ErrNotFitted)
	}
	if len(v.Vocabulary) != len(v.IDF) {
		return fmt.Errorf("tfidf: vocabulary has %d terms but %d idf weights", len(v.Vocabulary), len(v.IDF))
	}
	for term, idx := range v.Vocabulary {
		if idx < 0 || idx >= len(v.IDF) {
			return fmt.Errorf("tfidf: term %q maps to column %d outside [0,%d)", term, idx, len(v.IDF))
		}
	}
	return nil
}

// terms tokenizes doc and expands the configured n-gram range.
func (v *TfidfVectorizer) terms(doc string) []string {
	if v.Lowercase {
		doc = strings.ToLower(doc)
	}

	stop := make(map[string]struct{}, len(v.StopWords))
	for _, w := range v.StopWords {
		stop[w] = struct{}{}
	}

	var tokens []string
	for _, tok := range tokenPattern.FindAllString(doc, -1) {
		if _, skip := stop[tok]; !skip {
			tokens = append(tokens, tok)
		}
	}

	lo, hi := v.NgramMin, v.NgramMax
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	if lo == 1 && hi == 1 {
		return tokens
	}

	var grams []string
	for n := lo; n <= hi; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}

func normalize(row []float64, term func(float64) float64, finish func(float64) float64) {
	var sum float64
	for _, x := range row {
		sum += term(x)
	}
	norm := finish(sum)
	if norm == 0 {
		return
	}
	for i := range row {
		row[i] /= norm
	}
}
