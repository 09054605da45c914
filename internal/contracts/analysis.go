package contracts

import "time"

// AnalysisRequest is the body POSTed to the scoring collaborator.
// Weights are flat named fields and are sent as raw percentages, never normalized.
// ⭐ SSOT: dashboard → scoring service request contract
type AnalysisRequest struct {
	Capital int64 `json:"capital" validate:"gte=0"`
	WPER    int   `json:"w_per" validate:"gte=0,lte=100"`
	WPBV    int   `json:"w_pbv" validate:"gte=0,lte=100"`
	WROE    int   `json:"w_roe" validate:"gte=0,lte=100"`
	WRSI    int   `json:"w_rsi" validate:"gte=0,lte=100"`
	WVolume int   `json:"w_volume" validate:"gte=0,lte=100"`
}

// Meta is the response envelope around the candidate list
type Meta struct {
	Timestamp string `json:"timestamp"`
	Status    string `json:"status,omitempty"`

	// Echo of the submitted configuration, when the collaborator sends one
	Capital  *float64       `json:"capital,omitempty"`
	Strategy map[string]int `json:"strategy,omitempty"`
}

// AnalysisResult is one complete, successful response from the scoring collaborator.
// It is never patched: each successful run produces a new value.
type AnalysisResult struct {
	Meta       Meta        `json:"meta"`
	Candidates []Candidate `json:"candidates"`

	RequestID  string    `json:"request_id"`
	ReceivedAt time.Time `json:"received_at"`
}

// IsEmpty reports whether the result carries no candidates
func (r *AnalysisResult) IsEmpty() bool {
	return r == nil || len(r.Candidates) == 0
}

// Find returns the candidate with the given id, pointing into the result itself
func (r *AnalysisResult) Find(id string) (*Candidate, bool) {
	if r == nil {
		return nil, false
	}
	for i := range r.Candidates {
		if r.Candidates[i].ID == id {
			return &r.Candidates[i], true
		}
	}
	return nil, false
}

// Recommended returns the recommended subsequence, preserving collaborator order
func (r *AnalysisResult) Recommended() []*Candidate {
	if r == nil {
		return nil
	}
	out := make([]*Candidate, 0, len(r.Candidates))
	for i := range r.Candidates {
		if r.Candidates[i].IsRecommended {
			out = append(out, &r.Candidates[i])
		}
	}
	return out
}

// All returns pointers to every candidate in collaborator order
func (r *AnalysisResult) All() []*Candidate {
	if r == nil {
		return nil
	}
	out := make([]*Candidate, len(r.Candidates))
	for i := range r.Candidates {
		out[i] = &r.Candidates[i]
	}
	return out
}

// TotalAllocated returns the sum of allocated money across all candidates
func (r *AnalysisResult) TotalAllocated() float64 {
	if r == nil {
		return 0
	}
	total := 0.0
	for _, c := range r.Candidates {
		total += c.AllocMoney
	}
	return total
}
