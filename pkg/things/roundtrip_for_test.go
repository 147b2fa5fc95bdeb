package things

import (
	"bytes"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carevault/carevault.go/internal/xmlutil"
)

// writeXML serializes any of the package's XML writers to a string.
func writeXML(t *testing.T, write func(*xml.Encoder) error) string {
	t.Helper()
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	require.NoError(t, write(enc))
	require.NoError(t, enc.Flush())
	return buf.String()
}

// parseXML decodes a document into a node tree.
func parseXML(t *testing.T, doc string) *xmlutil.Node {
	t.Helper()
	n, err := xmlutil.Parse([]byte(doc))
	require.NoError(t, err)
	return n
}

// fixedWhen is a deterministic effective date for round-trip tests.
func fixedWhen(t *testing.T) *ApproximateDateTime {
	t.Helper()
	date, err := NewYMD(2023, 4, 12)
	require.NoError(t, err)
	at, err := NewApproximateTime(7, 30)
	require.NoError(t, err)
	dt, err := NewApproximateDateTime(date)
	require.NoError(t, err)
	require.NoError(t, dt.SetTime(at))
	return dt
}
