package xmlutil

import (
	"bytes"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_tree(t *testing.T) {
	n, err := Parse([]byte(`<weight><when><descriptive> last week </descriptive></when><value><kg>75.5</kg></value></weight>`))
	require.NoError(t, err)

	assert.Equal(t, "weight", n.Name)
	require.NotNil(t, n.Child("when"))
	assert.Equal(t, "last week", n.Child("when").Child("descriptive").Text())

	kg, ok, err := n.Child("value").ChildFloat("kg")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 75.5, kg)
}

func TestParse_absentVersusInvalid(t *testing.T) {
	n, err := Parse([]byte(`<time><h>8</h><m>oops</m></time>`))
	require.NoError(t, err)

	_, ok, err := n.ChildInt("s")
	require.NoError(t, err)
	assert.False(t, ok, "absent child must not be an error")

	_, ok, err = n.ChildInt("m")
	assert.True(t, ok)
	assert.Error(t, err, "present but malformed child must error")
}

func TestParse_attributes(t *testing.T) {
	n, err := Parse([]byte(`<thing-id version-stamp="v1">id1</thing-id>`))
	require.NoError(t, err)

	v, ok := n.Attr("version-stamp")
	assert.True(t, ok)
	assert.Equal(t, "v1", v)

	_, ok = n.Attr("missing")
	assert.False(t, ok)
}

func TestParse_repeatedChildren(t *testing.T) {
	n, err := Parse([]byte(`<address><street>1 Main St</street><street>Apt 2</street><city>Kirkland</city></address>`))
	require.NoError(t, err)

	streets := n.ChildrenNamed("street")
	require.Len(t, streets, 2)
	assert.Equal(t, "1 Main St", streets[0].Text())
	assert.Equal(t, "Apt 2", streets[1].Text())
}

func TestNode_reserialize(t *testing.T) {
	const doc = `<custom><a x="1">v</a><b><c>2</c></b></custom>`
	n, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, doc, n.String())
}

func TestWriteHelpers(t *testing.T) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)

	require.NoError(t, Open(enc, "value"))
	require.NoError(t, WriteFloat(enc, "kg", 75.5))
	require.NoError(t, WriteElement(enc, "display", "166.4", Attr("units", "lb")))
	require.NoError(t, Close(enc, "value"))
	require.NoError(t, enc.Flush())

	assert.Equal(t, `<value><kg>75.5</kg><display units="lb">166.4</display></value>`, buf.String())
}
