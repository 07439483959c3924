package adenv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

const stepColumn = "step"

// Columns of an organized file, in write order. The raw input carries an
// additional leading step column.
var Columns = []string{
	"keyword",
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
	"cost_per_acquisition",
	"previous_recommendation",
	"impression_share",
	"conversion_value",
}

// LoadFile reads the tabular input at path
func LoadFile(path string) ([]RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrConfiguration, path, err)
	}
	defer f.Close()
	return LoadCSV(f)
}

// LoadCSV parses rows with a header line. The step column is optional so that
// organized files written by WriteCSV can be read back.
func LoadCSV(r io.Reader) ([]RawRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrConfiguration)
		}
		return nil, fmt.Errorf("%w: reading header: %v", ErrConfiguration, err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, c := range Columns {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrConfiguration, c)
		}
	}
	stepIdx, hasStep := index[stepColumn]

	records := make([]RawRecord, 0)
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line += 1
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrConfiguration, line, err)
		}
		p := &rowParser{row: row, index: index}
		rec := RawRecord{
			KeywordMetrics: KeywordMetrics{
				Keyword:                p.str("keyword"),
				Competitiveness:        p.float("competitiveness"),
				DifficultyScore:        p.float("difficulty_score"),
				OrganicRank:            p.int("organic_rank"),
				OrganicClicks:          p.int("organic_clicks"),
				OrganicCTR:             p.float("organic_ctr"),
				PaidClicks:             p.int("paid_clicks"),
				PaidCTR:                p.float("paid_ctr"),
				AdSpend:                p.float("ad_spend"),
				AdConversions:          p.int("ad_conversions"),
				AdROAS:                 p.float("ad_roas"),
				ConversionRate:         p.float("conversion_rate"),
				CostPerClick:           p.float("cost_per_click"),
				CostPerAcquisition:     p.float("cost_per_acquisition"),
				PreviousRecommendation: p.bool("previous_recommendation"),
				ImpressionShare:        p.float("impression_share"),
				ConversionValue:        p.float("conversion_value"),
			},
		}
		if hasStep {
			rec.Step = p.intAt(stepColumn, stepIdx)
		}
		if p.err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrConfiguration, line, p.err)
		}
		if rec.Keyword == "" {
			return nil, fmt.Errorf("%w: line %d: empty keyword", ErrConfiguration, line)
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteCSV writes an organized dataset without the step column
func WriteCSV(w io.Writer, d Dataset) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return err
	}
	for _, r := range d {
		row := []string{
			r.Keyword,
			formatFloat(r.Competitiveness),
			formatFloat(r.DifficultyScore),
			strconv.Itoa(r.OrganicRank),
			strconv.Itoa(r.OrganicClicks),
			formatFloat(r.OrganicCTR),
			strconv.Itoa(r.PaidClicks),
			formatFloat(r.PaidCTR),
			formatFloat(r.AdSpend),
			strconv.Itoa(r.AdConversions),
			formatFloat(r.AdROAS),
			formatFloat(r.ConversionRate),
			formatFloat(r.CostPerClick),
			formatFloat(r.CostPerAcquisition),
			formatBool(r.PreviousRecommendation),
			formatFloat(r.ImpressionShare),
			formatFloat(r.ConversionValue),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFile writes an organized dataset to path
func WriteFile(path string, d Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// rowParser keeps the first parse error so a row can be decoded in one pass
type rowParser struct {
	row   []string
	index map[string]int
	err   error
}

func (p *rowParser) cell(name string, i int) (string, bool) {
	if p.err != nil {
		return "", false
	}
	if i >= len(p.row) {
		p.err = fmt.Errorf("column %q: short row", name)
		return "", false
	}
	return p.row[i], true
}

func (p *rowParser) str(name string) string {
	s, _ := p.cell(name, p.index[name])
	return s
}

func (p *rowParser) float(name string) float64 {
	s, ok := p.cell(name, p.index[name])
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.err = fmt.Errorf("column %q: %v", name, err)
		return 0
	}
	return v
}

func (p *rowParser) int(name string) int {
	return p.intAt(name, p.index[name])
}

// integer columns written by dataframe tools sometimes carry a trailing ".0"
func (p *rowParser) intAt(name string, i int) int {
	s, ok := p.cell(name, i)
	if !ok {
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		p.err = fmt.Errorf("column %q: %q is not an integer", name, s)
		return 0
	}
	return int(f)
}

func (p *rowParser) bool(name string) bool {
	s, ok := p.cell(name, p.index[name])
	if !ok {
		return false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		p.err = fmt.Errorf("column %q: %v", name, err)
		return false
	}
	return v
}
