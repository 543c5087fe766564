package fixture

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/orizon-lang/conceptcheck/internal/query"
)

// Outcome is the result of one expectation.
type Outcome struct {
	Expectation
	Got    string `json:"got"`
	Source string `json:"source,omitempty"`
	Err    string `json:"error,omitempty"`
}

// Passed reports whether the answer matched without error.
func (o Outcome) Passed() bool { return o.Err == "" && o.Got == o.Expect }

// Report collects the outcomes of a fixture run in query order.
type Report struct {
	Fixture  string    `json:"fixture"`
	Outcomes []Outcome `json:"outcomes"`
}

// Failures returns the outcomes that did not pass.
func (r Report) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.Passed() {
			out = append(out, o)
		}
	}
	return out
}

// OK reports whether every expectation passed.
func (r Report) OK() bool { return len(r.Failures()) == 0 }

func (r Report) String() string {
	var sb strings.Builder
	for _, o := range r.Outcomes {
		status := "ok"
		if !o.Passed() {
			status = "FAIL"
		}
		fmt.Fprintf(&sb, "%-4s %s = %s", status, o.Query, o.Got)
		if o.Err != "" {
			fmt.Fprintf(&sb, " (error: %s)", o.Err)
		} else if !o.Passed() {
			fmt.Fprintf(&sb, " (want %s)", o.Expect)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "%d/%d passed\n", len(r.Outcomes)-len(r.Failures()), len(r.Outcomes))
	return sb.String()
}

// Check answers every expectation of f against e with up to workers
// concurrent queries.
func (f *Fixture) Check(ctx context.Context, e *query.Engine, workers int) (Report, error) {
	qs := make([]query.Query, len(f.Queries))
	for i, x := range f.Queries {
		qs[i] = x.Query
	}
	answers, err := e.Batch(ctx, qs, workers)
	if err != nil {
		return Report{}, err
	}
	rep := Report{Fixture: f.path, Outcomes: make([]Outcome, len(answers))}
	for i, a := range answers {
		o := Outcome{Expectation: f.Queries[i], Got: a.Value, Source: a.Source}
		if a.Err != nil {
			o.Err = a.Err.Error()
		}
		rep.Outcomes[i] = o
	}
	e.Logger().Info("fixture checked",
		zap.String("fixture", f.path),
		zap.Int("queries", len(rep.Outcomes)),
		zap.Int("failures", len(rep.Failures())))
	return rep, nil
}
