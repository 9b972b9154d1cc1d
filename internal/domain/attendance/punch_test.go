package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPunchRecords(t *testing.T) {
	tests := []struct {
		name    string
		records string
		want    []string
	}{
		{"empty", "", nil},
		{"only separators", " , ,, ", nil},
		{"trims entries", " 09:00(IN) ,18:00(OUT) ", []string{"09:00(IN)", "18:00(OUT)"}},
		{
			"collapses whitespace runs keeping the first",
			"09:13 (IN 1),09:13  (IN 1),09:13 \t(IN 1),18:31 (OUT 1)",
			[]string{"09:13 (IN 1)", "18:31 (OUT 1)"},
		},
		{
			"missing whitespace is a distinct entry",
			"09:00 (IN),09:00(IN)",
			[]string{"09:00 (IN)", "09:00(IN)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanPunchRecords(tt.records))
		})
	}
}

func TestParsePunch(t *testing.T) {
	assert.Equal(t, Punch{Raw: "09:02:11(IN)", Time: "09:02", Type: PunchTypeIn}, ParsePunch("09:02:11(IN)"))
	assert.Equal(t, Punch{Raw: "18:31 (out 2)", Time: "18:31", Type: PunchTypeOut}, ParsePunch("18:31 (out 2)"))
	assert.Equal(t, Punch{Raw: "12:00", Time: "12:00", Type: PunchTypeUnknown}, ParsePunch("12:00"))
	assert.Equal(t, Punch{Raw: "(IN)", Time: "", Type: PunchTypeIn}, ParsePunch("(IN)"))
}

func TestTotalHours(t *testing.T) {
	tests := []struct {
		name    string
		records string
		want    string
	}{
		{"first in to last out", "09:02:11(IN),13:00(OUT), 13:45(IN),18:10:05(OUT)", "09:08"},
		{"no out", "09:00(IN),13:00(IN)", ZeroDuration},
		{"no in", "18:00(OUT)", ZeroDuration},
		{"empty", "", ZeroDuration},
		{"negative span", "18:00(IN),09:00(OUT)", ZeroDuration},
		{"punch without time", "(IN),18:00(OUT)", ZeroDuration},
		{"unknown entries ignored", "08:00,09:30(IN),10:00,17:45(OUT)", "08:15"},
		{"same minute", "09:00(IN),09:00(OUT)", "00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalHours(ParsePunchRecords(tt.records)))
		})
	}
}

func TestSummarize(t *testing.T) {
	resp := Summarize("09:13 (IN 1), 09:13 (IN 1), 18:31 (OUT 1)")

	require.Len(t, resp.Punches, 2)
	assert.Equal(t, "IN", resp.Punches[0].Type)
	require.NotNil(t, resp.FirstIn)
	require.NotNil(t, resp.LastOut)
	assert.Equal(t, "09:13", *resp.FirstIn)
	assert.Equal(t, "18:31", *resp.LastOut)
	assert.Equal(t, "09:18", resp.TotalHours)

	empty := Summarize("")
	assert.Empty(t, empty.Punches)
	assert.Nil(t, empty.FirstIn)
	assert.Equal(t, ZeroDuration, empty.TotalHours)
}

func TestSummaryRequest_Validate(t *testing.T) {
	req := SummaryRequest{PunchRecords: "09:00(IN)"}
	assert.NoError(t, req.Validate())

	long := make([]byte, MaxPunchRecordsLength+1)
	for i := range long {
		long[i] = 'x'
	}
	req.PunchRecords = string(long)
	assert.Error(t, req.Validate())
}
