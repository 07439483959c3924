package adenv

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func metrics(keyword string, step int) KeywordMetrics {
	return KeywordMetrics{
		Keyword:         keyword,
		Competitiveness: 0.5,
		DifficultyScore: 0.25,
		OrganicRank:     1 + step%10,
		OrganicClicks:   100 + step,
		OrganicCTR:      0.1,
		PaidClicks:      50 + step,
		PaidCTR:         0.1,
		AdSpend:         1000 + float64(step),
		AdConversions:   step,
		AdROAS:          1.5,
		ConversionRate:  0.05,
		CostPerClick:    2.5,
		ImpressionShare: 0.5,
	}
}

// keyword-major rows: all steps of kw0, then all steps of kw1, ...
func rawRows(keywords []string, steps int) []RawRecord {
	rows := make([]RawRecord, 0, len(keywords)*steps)
	for _, kw := range keywords {
		for s := 0; s < steps; s++ {
			rows = append(rows, RawRecord{Step: s, KeywordMetrics: metrics(kw, s)})
		}
	}
	return rows
}

func keywordNames(k int) []string {
	out := make([]string, k)
	for i := range out {
		out[i] = fmt.Sprintf("Keyword_%d", i)
	}
	return out
}

func organized(t *testing.T, k, steps int) Dataset {
	t.Helper()
	d, err := NewOrganizer(0).Organize(rawRows(keywordNames(k), steps))
	require.NoError(t, err)
	return d
}
