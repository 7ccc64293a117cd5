package freebusy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatherkit/scheduling/interval"
)

func testWindow(t *testing.T) interval.Interval {
	t.Helper()
	window, err := interval.New(
		time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return window
}

func TestBuildQuery(t *testing.T) {
	xmlStr, err := BuildQuery(Query{Window: testWindow(t)})
	require.NoError(t, err)

	assert.Contains(t, xmlStr, "free-busy-query")
	assert.Contains(t, xmlStr, caldavNamespace)
	assert.Contains(t, xmlStr, `start="20240115T090000Z"`)
	assert.Contains(t, xmlStr, `end="20240116T090000Z"`)
}

func TestQueryRoundTrip(t *testing.T) {
	window := testWindow(t)

	xmlStr, err := BuildQuery(Query{Window: window})
	require.NoError(t, err)

	parsed, err := ParseQuery(xmlStr)
	require.NoError(t, err)
	assert.True(t, parsed.Window.Start.Equal(window.Start))
	assert.True(t, parsed.Window.End.Equal(window.End))
}

func TestParseQuery_ForeignNamespacePrefix(t *testing.T) {
	xmlStr := `<?xml version="1.0" encoding="UTF-8"?>
<X:free-busy-query xmlns:X="urn:ietf:params:xml:ns:caldav">
  <X:time-range start="20240115T090000Z" end="20240115T170000Z"/>
</X:free-busy-query>`

	parsed, err := ParseQuery(xmlStr)
	require.NoError(t, err)
	assert.True(t, parsed.Window.Start.Equal(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)))
	assert.True(t, parsed.Window.End.Equal(time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC)))
}

func TestParseQuery_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		xmlStr string
	}{
		{name: "empty document", xmlStr: ""},
		{name: "not xml", xmlStr: "hello"},
		{name: "wrong root", xmlStr: `<C:calendar-query xmlns:C="urn:ietf:params:xml:ns:caldav"/>`},
		{
			name:   "missing time-range",
			xmlStr: `<C:free-busy-query xmlns:C="urn:ietf:params:xml:ns:caldav"/>`,
		},
		{
			name: "missing start attribute",
			xmlStr: `<C:free-busy-query xmlns:C="urn:ietf:params:xml:ns:caldav">
  <C:time-range end="20240115T170000Z"/>
</C:free-busy-query>`,
		},
		{
			name: "window end before start",
			xmlStr: `<C:free-busy-query xmlns:C="urn:ietf:params:xml:ns:caldav">
  <C:time-range start="20240115T170000Z" end="20240115T090000Z"/>
</C:free-busy-query>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuery(tt.xmlStr)
			require.Error(t, err)
		})
	}
}
