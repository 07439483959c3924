package server

import "github.com/zeu5/keyword-rl/adenv"

type ObservationJSON struct {
	KeywordFeatures [][]float64 `json:"keyword_features"`
	Cash            float64     `json:"cash"`
	Holdings        []bool      `json:"holdings"`
}

// Bundle is the wire form of a reset or step result
type Bundle struct {
	Observation ObservationJSON `json:"observation"`
	Reward      float64         `json:"reward"`
	Done        bool            `json:"done"`
	Terminated  bool            `json:"terminated"`
	Truncated   bool            `json:"truncated"`
	StepCount   int             `json:"step_count"`
}

func NewBundle(ts *adenv.TimeStep) Bundle {
	obs := ts.Observation()
	return Bundle{
		Observation: ObservationJSON{
			KeywordFeatures: obs.FeatureRows(),
			Cash:            obs.Cash,
			Holdings:        obs.Holdings,
		},
		Reward:     ts.Reward(),
		Done:       ts.Done(),
		Terminated: ts.Terminated(),
		Truncated:  ts.Truncated(),
		StepCount:  ts.StepCount(),
	}
}

type createSessionRequest struct {
	Split string `json:"split" binding:"required,oneof=train test"`
}

type createSessionResponse struct {
	ID          string   `json:"id"`
	Result      Bundle   `json:"result"`
	NumKeywords int      `json:"num_keywords"`
	ActionSize  int      `json:"action_size"`
	Keywords    []string `json:"keywords"`
}

type stepRequest struct {
	Action []bool `json:"action" binding:"required"`
}
