package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	k, err := ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, KindGeneric, k)

	k, err = ParseKind("script")
	require.NoError(t, err)
	assert.Equal(t, KindScript, k)

	_, err = ParseKind("coffee")
	assert.Error(t, err)
}

func TestModule_SetAssetsReplaces(t *testing.T) {
	m := NewFactory(KindStylesheet).CreateModule("~/styles/site")
	assert.Equal(t, KindStylesheet, m.Kind())
	assert.Empty(t, m.Assets())
	assert.False(t, m.Final())

	first := NewAsset("~/styles/site.css", m, nil)
	m.SetAssets([]*Asset{first})
	second := NewAsset("~/styles/site.less", m, nil)
	m.SetAssets([]*Asset{second})

	require.Len(t, m.Assets(), 1)
	assert.Same(t, second, m.Assets()[0])
	assert.Same(t, m, m.Assets()[0].Module())
	assert.True(t, m.Final())
}

func TestModule_SetAssetsCopies(t *testing.T) {
	m := NewModule("~/a", KindScript)
	in := []*Asset{NewAsset("~/a.js", m, nil)}
	m.SetAssets(in)
	in[0] = nil
	assert.NotNil(t, m.Assets()[0])
}
