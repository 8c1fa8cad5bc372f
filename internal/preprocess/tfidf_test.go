package preprocess

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vectorizer() *TfidfVectorizer {
	return &TfidfVectorizer{
		Vocabulary: map[string]int{"brake": 0, "noise": 1, "engine": 2, "brake noise": 3},
		IDF:        []float64{1, 2, 1, 3},
		Norm:       NormNone,
		NgramMin:   1,
		NgramMax:   1,
		Lowercase:  true,
	}
}

func TestTfidf_Transform(t *testing.T) {
	v := vectorizer()
	assert.Equal(t, 4, v.Width())

	got, err := v.Transform("BRAKE noise, brake!")
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 0, 0}, got)
}

func TestTfidf_Bigrams(t *testing.T) {
	v := vectorizer()
	v.NgramMax = 2

	got, err := v.Transform("brake noise")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 0, 3}, got)
}

func TestTfidf_L2Norm(t *testing.T) {
	v := vectorizer()
	v.Norm = NormL2

	got, err := v.Transform("brake noise")
	require.NoError(t, err)

	var sum float64
	for _, x := range got {
		sum += x * x
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-12)
	assert.InDelta(t, 1/math.Sqrt(5), got[0], 1e-12)
}

func TestTfidf_SublinearAndStopWords(t *testing.T) {
	v := vectorizer()
	v.SublinearTF = true
	v.StopWords = []string{"noise"}

	got, err := v.Transform("brake brake noise")
	require.NoError(t, err)
	assert.InDelta(t, 1+math.Log(2), got[0], 1e-12)
	assert.Zero(t, got[1])
}

func TestTfidf_UnknownTermsAndEmptyText(t *testing.T) {
	v := vectorizer()

	got, err := v.Transform("windscreen wiper a")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, got)

	v.Norm = NormL2
	got, err = v.Transform("")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, got)
}

func TestTfidf_Errors(t *testing.T) {
	_, err := (&TfidfVectorizer{}).Transform("brake")
	assert.ErrorIs(t, err, ErrNotFitted)

	v := vectorizer()
	v.IDF = v.IDF[:2]
	_, err = v.Transform("brake")
	assert.Error(t, err)

	v = vectorizer()
	v.Norm = "max"
	_, err = v.Transform("brake")
	assert.Error(t, err)
}
