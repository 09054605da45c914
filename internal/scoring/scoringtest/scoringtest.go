// Package scoringtest provides fixtures and a controllable fake scoring service
// for tests of packages that depend on scoring.
package scoringtest

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/wonny/quantumedge/internal/contracts"
)

// SampleBody is a complete, valid collaborator response with two recommended
// candidates out of three.
const SampleBody = `{
  "status": "success",
  "timestamp": "18 October 2026, 10:00 WIB",
  "meta": {"capital": 10000000, "strategy": {"per": 30, "pbv": 10, "roe": 20, "rsi": 20, "volume": 20}},
  "data": [
    {
      "id": "BBCA.JK", "name": "Bank Central Asia", "price": 9275,
      "c1_per": 22.4, "c2_pbv": 4.6, "c3_roe": 21.3, "c4_rsi": 28.1, "c5_volume": 85400000,
      "analysis": "Teknikal: Oversold (Murah) | Fundamental: Profit Tinggi",
      "topsis_score": 0.7321, "alloc_money": 5200000, "alloc_lots": 5, "is_recommended": true,
      "history": [{"date": "01/10", "price": 9100}, {"date": "02/10", "price": 9275}]
    },
    {
      "id": "GOTO.JK", "name": "GoTo Gojek Tokopedia", "price": 68,
      "c1_per": 999, "c2_pbv": 1.2, "c3_roe": -4.5, "c4_rsi": 55, "c5_volume": 1250000000,
      "analysis": "Teknikal: Netral",
      "topsis_score": 0.4112, "alloc_money": 0, "alloc_lots": 0, "is_recommended": false,
      "history": []
    },
    {
      "id": "TLKM.JK", "name": "Telkom Indonesia", "price": 2950,
      "c1_per": 12.1, "c2_pbv": 2.1, "c3_roe": 17.8, "c4_rsi": 74.2, "c5_volume": 96000000,
      "analysis": "Teknikal: Overbought (Mahal) | Fundamental: Profit Tinggi | Fundamental: Undervalued",
      "topsis_score": 0.6904, "alloc_money": 4800000, "alloc_lots": 16, "is_recommended": true,
      "history": [{"date": "01/10", "price": 3010}, {"date": "02/10", "price": 2950}]
    }
  ]
}`

// SampleResult decodes SampleBody into a result, the way the scoring client would
func SampleResult() *contracts.AnalysisResult {
	var wire struct {
		Timestamp string                `json:"timestamp"`
		Data      []contracts.Candidate `json:"data"`
	}
	if err := json.Unmarshal([]byte(SampleBody), &wire); err != nil {
		panic(err)
	}
	return &contracts.AnalysisResult{
		Meta:       contracts.Meta{Timestamp: wire.Timestamp},
		Candidates: wire.Data,
	}
}

// Response is what the fake returns for one call
type Response struct {
	Result *contracts.AnalysisResult
	Err    error
}

// Fake is an in-memory Analyzer. Calls block until Release is called when Hold
// is set, which lets tests observe the loading state.
type Fake struct {
	mu        sync.Mutex
	responses []Response
	requests  []contracts.AnalysisRequest
	hold      chan struct{}
	started   chan struct{}
	calls     atomic.Int32
}

// NewFake returns a fake that answers calls with the given responses in order.
// The last response repeats once the list is exhausted.
func NewFake(responses ...Response) *Fake {
	return &Fake{responses: responses, started: make(chan struct{}, 16)}
}

// Hold makes subsequent calls block until Release
func (f *Fake) Hold() *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hold = make(chan struct{})
	return f
}

// Release unblocks every held call
func (f *Fake) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hold != nil {
		close(f.hold)
		f.hold = nil
	}
}

// Started receives one value each time a call begins
func (f *Fake) Started() <-chan struct{} {
	return f.started
}

// Calls returns the number of calls made so far
func (f *Fake) Calls() int {
	return int(f.calls.Load())
}

// Requests returns a copy of every request received
func (f *Fake) Requests() []contracts.AnalysisRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]contracts.AnalysisRequest(nil), f.requests...)
}

// Analyze implements scoring.Analyzer
func (f *Fake) Analyze(ctx context.Context, req contracts.AnalysisRequest) (*contracts.AnalysisResult, error) {
	n := int(f.calls.Add(1)) - 1

	f.mu.Lock()
	f.requests = append(f.requests, req)
	hold := f.hold
	var resp Response
	if len(f.responses) > 0 {
		if n >= len(f.responses) {
			n = len(f.responses) - 1
		}
		resp = f.responses[n]
	}
	f.mu.Unlock()

	select {
	case f.started <- struct{}{}:
	default:
	}

	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return resp.Result, resp.Err
}
