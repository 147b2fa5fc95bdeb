package things

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const journalWhen = `<when><structured><date><y>2023</y><m>4</m><d>12</d></date><time><h>7</h><m>30</m></time></structured></when>`

func TestHealthJournalEntry_roundTrip(t *testing.T) {
	e, err := NewHealthJournalEntry("Felt dizzy after the morning run.")
	require.NoError(t, err)
	require.NoError(t, e.SetWhen(fixedWhen(t)))
	category, err := NewCodableValue("Exercise")
	require.NoError(t, err)
	require.NoError(t, e.SetCategory(category))

	doc := writeXML(t, e.WriteXML)
	assert.Equal(t,
		`<health-journal-entry>`+journalWhen+
			`<content>Felt dizzy after the morning run.</content>`+
			`<category><text>Exercise</text></category></health-journal-entry>`,
		doc)

	parsed := &HealthJournalEntry{}
	require.NoError(t, parsed.ParseXML(parseXML(t, doc)))
	assert.Equal(t, "Felt dizzy after the morning run.", parsed.Content())
	require.NotNil(t, parsed.Category())
	assert.Equal(t, "Exercise", parsed.Category().Text())
	assert.Equal(t, doc, writeXML(t, parsed.WriteXML))
}

func TestHealthJournalEntry_contentMandatory(t *testing.T) {
	_, err := NewHealthJournalEntry("  ")
	var ierr *InvalidArgumentError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "content", ierr.Field)

	e := &HealthJournalEntry{}
	var serr *SerializationError
	require.ErrorAs(t, e.WriteXML(nil), &serr)
	assert.Equal(t, "health-journal-entry", serr.Type)

	var merr *MissingElementError
	require.ErrorAs(t, e.ParseXML(parseXML(t,
		`<health-journal-entry>`+journalWhen+`</health-journal-entry>`)), &merr)
	assert.Equal(t, "health-journal-entry/content", merr.Element)
}

func TestHealthJournalEntry_whenMandatoryOnParse(t *testing.T) {
	e := &HealthJournalEntry{}
	var merr *MissingElementError
	require.ErrorAs(t, e.ParseXML(parseXML(t,
		`<health-journal-entry><content>note</content></health-journal-entry>`)), &merr)
	assert.Equal(t, "health-journal-entry/when", merr.Element)
}

func TestHealthJournalEntry_whenDefaultsAtWrite(t *testing.T) {
	e, err := NewHealthJournalEntry("note")
	require.NoError(t, err)

	doc := writeXML(t, e.WriteXML)
	parsed := &HealthJournalEntry{}
	require.NoError(t, parsed.ParseXML(parseXML(t, doc)))
	require.NotNil(t, parsed.When())
	assert.NotNil(t, parsed.When().Date())
}
