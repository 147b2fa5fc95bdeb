package things

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFamilyHistory_roundTrip(t *testing.T) {
	condition, err := NewCodableValue("Coronary artery disease")
	require.NoError(t, err)
	f, err := NewFamilyHistory(condition)
	require.NoError(t, err)

	relationship, err := NewCodableValue("Father")
	require.NoError(t, err)
	require.NoError(t, f.SetRelationship(relationship))

	dob, err := NewStructuredDate(1951)
	require.NoError(t, err)
	require.NoError(t, f.SetDateOfBirth(dob))
	require.NoError(t, f.SetAgeOfOnset(54))

	doc := writeXML(t, f.WriteXML)
	assert.Equal(t,
		`<family-history><condition><text>Coronary artery disease</text></condition>`+
			`<relationship><text>Father</text></relationship>`+
			`<date-of-birth><date><y>1951</y></date></date-of-birth>`+
			`<age-of-onset>54</age-of-onset></family-history>`,
		doc)

	parsed := &FamilyHistory{}
	require.NoError(t, parsed.ParseXML(parseXML(t, doc)))
	assert.Equal(t, "Coronary artery disease", parsed.Condition().Text())
	assert.Equal(t, "Father", parsed.Relationship().Text())
	assert.Equal(t, 1951, parsed.DateOfBirth().Year())
	age, ok := parsed.AgeOfOnset()
	require.True(t, ok)
	assert.Equal(t, 54, age)
	assert.Equal(t, doc, writeXML(t, parsed.WriteXML))
}

func TestFamilyHistory_optionalAbsent(t *testing.T) {
	parsed := &FamilyHistory{}
	require.NoError(t, parsed.ParseXML(parseXML(t,
		`<family-history><condition><text>Asthma</text></condition></family-history>`)))
	assert.Nil(t, parsed.Relationship())
	assert.Nil(t, parsed.DateOfBirth())
	_, ok := parsed.AgeOfOnset()
	assert.False(t, ok)
}

func TestFamilyHistory_conditionMandatory(t *testing.T) {
	_, err := NewFamilyHistory(nil)
	assert.Error(t, err)

	f := &FamilyHistory{}
	var serr *SerializationError
	require.ErrorAs(t, f.WriteXML(nil), &serr)
	assert.Equal(t, "family-history", serr.Type)

	var merr *MissingElementError
	require.ErrorAs(t, f.ParseXML(parseXML(t, `<family-history><age-of-onset>12</age-of-onset></family-history>`)), &merr)
	assert.Equal(t, "family-history/condition", merr.Element)
}

func TestFamilyHistory_ageRange(t *testing.T) {
	condition, err := NewCodableValue("Asthma")
	require.NoError(t, err)
	f, err := NewFamilyHistory(condition)
	require.NoError(t, err)

	assert.Error(t, f.SetAgeOfOnset(-1))
	assert.Error(t, f.SetAgeOfOnset(151))
	_, ok := f.AgeOfOnset()
	assert.False(t, ok)
}
