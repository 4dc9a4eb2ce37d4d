package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNullLoaderAlwaysErrors(t *testing.T) {
	_, err := NullLoader{}.Parse(context.Background(), "a.js", []byte("const x = 1;"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "a.js")
}

func TestSourcesIndexMarshalsEmptyAsObject(t *testing.T) {
	var idx SourcesIndex
	out, err := idx.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}

func TestSourcesIndexAddIsNoopWhenNil(t *testing.T) {
	var idx SourcesIndex
	assert.NotPanics(t, func() { idx.Add("a.js", "const x = 1;") })
}

func TestSourcesIndexAddAndMarshal(t *testing.T) {
	idx := make(SourcesIndex)
	idx.Add("a.js", "const x = 1;")

	out, err := idx.MarshalJSON()
	assert.NoError(t, err)
	assert.JSONEq(t, `{"a.js":"const x = 1;"}`, string(out))
}
