package adenv

// KeywordMetrics is one row of per-keyword advertising metrics.
// Records are immutable once loaded.
type KeywordMetrics struct {
	Keyword                string  `json:"keyword"`
	Competitiveness        float64 `json:"competitiveness"`
	DifficultyScore        float64 `json:"difficulty_score"`
	OrganicRank            int     `json:"organic_rank"`
	OrganicClicks          int     `json:"organic_clicks"`
	OrganicCTR             float64 `json:"organic_ctr"`
	PaidClicks             int     `json:"paid_clicks"`
	PaidCTR                float64 `json:"paid_ctr"`
	AdSpend                float64 `json:"ad_spend"`
	AdConversions          int     `json:"ad_conversions"`
	AdROAS                 float64 `json:"ad_roas"`
	ConversionRate         float64 `json:"conversion_rate"`
	CostPerClick           float64 `json:"cost_per_click"`
	CostPerAcquisition     float64 `json:"cost_per_acquisition"`
	PreviousRecommendation bool    `json:"previous_recommendation"`
	ImpressionShare        float64 `json:"impression_share"`
	ConversionValue        float64 `json:"conversion_value"`
}

// FeatureColumns are the columns fed to the agent, in observation order
var FeatureColumns = []string{
	"competitiveness",
	"difficulty_score",
	"organic_rank",
	"organic_clicks",
	"organic_ctr",
	"paid_clicks",
	"paid_ctr",
	"ad_spend",
	"ad_conversions",
	"ad_roas",
	"conversion_rate",
	"cost_per_click",
}

// NumFeatures is the width of a feature vector
var NumFeatures = len(FeatureColumns)

// Features projects the record onto FeatureColumns
func (k KeywordMetrics) Features() []float64 {
	return []float64{
		k.Competitiveness,
		k.DifficultyScore,
		float64(k.OrganicRank),
		float64(k.OrganicClicks),
		k.OrganicCTR,
		float64(k.PaidClicks),
		k.PaidCTR,
		k.AdSpend,
		float64(k.AdConversions),
		k.AdROAS,
		k.ConversionRate,
		k.CostPerClick,
	}
}

// RawRecord is a row as read from the input file, still carrying its step tag.
type RawRecord struct {
	Step int
	KeywordMetrics
}

// Block is the snapshot of all K keywords at one time step
type Block []KeywordMetrics

// Keywords returns the keyword identifiers of the block in order
func (b Block) Keywords() []string {
	out := make([]string, len(b))
	for i, r := range b {
		out[i] = r.Keyword
	}
	return out
}

// Dataset is a time-major sequence of blocks flattened into rows.
// Rows [s*K, s*K+K) hold the block of step s.
type Dataset []KeywordMetrics

// Len returns the number of rows
func (d Dataset) Len() int {
	return len(d)
}
