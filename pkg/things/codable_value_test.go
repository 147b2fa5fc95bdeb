package things

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodableValue_roundTrip(t *testing.T) {
	cv, err := NewCodableValue("Type 2 Diabetes")
	require.NoError(t, err)
	code, err := NewCodedValue("E11", "icd10")
	require.NoError(t, err)
	require.NoError(t, code.SetVersion("2024"))
	require.NoError(t, cv.AddCode(code))

	writeAs := func(cv *CodableValue) func(*xml.Encoder) error {
		return func(enc *xml.Encoder) error { return cv.WriteXMLAs(enc, "condition") }
	}

	doc := writeXML(t, writeAs(cv))
	assert.Equal(t,
		`<condition><text>Type 2 Diabetes</text><code><value>E11</value><family>icd10</family><version>2024</version></code></condition>`,
		doc)

	parsed := &CodableValue{}
	require.NoError(t, parsed.ParseXML(parseXML(t, doc)))
	assert.Equal(t, "Type 2 Diabetes", parsed.Text())
	require.Len(t, parsed.Codes(), 1)
	assert.Equal(t, "E11", parsed.Codes()[0].Value())
	assert.Equal(t, doc, writeXML(t, writeAs(parsed)))
}

func TestCodableValue_validation(t *testing.T) {
	_, err := NewCodableValue("  ")
	assert.Error(t, err)

	cv, err := NewCodableValue("Asthma")
	require.NoError(t, err)
	assert.Error(t, cv.SetText(""))
	assert.Equal(t, "Asthma", cv.Text())
	assert.Error(t, cv.AddCode(nil))

	_, err = NewCodedValue("", "icd10")
	assert.Error(t, err)
	_, err = NewCodedValue("J45", " ")
	assert.Error(t, err)
}

func TestCodableValue_parseMissingText(t *testing.T) {
	cv := &CodableValue{}
	var merr *MissingElementError
	require.ErrorAs(t, cv.ParseXML(parseXML(t, `<condition><code><value>J45</value><family>icd10</family></code></condition>`)), &merr)
	assert.Equal(t, "condition/text", merr.Element)
}
