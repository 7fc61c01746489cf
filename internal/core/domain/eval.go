package domain

import "time"

// Example is one dataset entry for offline evaluation: a question with
// its reference (ground-truth) answer.
type Example struct {
	Question        string `json:"question"`
	ReferenceAnswer string `json:"reference_answer"`
}

// Verdicts holds the four boolean judgements for one evaluated answer.
type Verdicts struct {
	Correctness        bool
	Relevance          bool
	Groundedness       bool
	RetrievalRelevance bool
}

// EvalRow is the evaluation outcome for one example.
type EvalRow struct {
	Question string
	Answer   string
	Sources  []string
	Verdicts Verdicts
}

// EvalReport aggregates evaluation rows with per-metric pass rates.
type EvalReport struct {
	Rows []EvalRow
}

// CorrectnessRate returns the fraction of rows judged correct.
func (r EvalReport) CorrectnessRate() float64 {
	return r.rate(func(v Verdicts) bool { return v.Correctness })
}

// RelevanceRate returns the fraction of rows judged relevant.
func (r EvalReport) RelevanceRate() float64 {
	return r.rate(func(v Verdicts) bool { return v.Relevance })
}

// GroundednessRate returns the fraction of rows judged grounded.
func (r EvalReport) GroundednessRate() float64 {
	return r.rate(func(v Verdicts) bool { return v.Groundedness })
}

// RetrievalRelevanceRate returns the fraction of rows whose retrieved
// context was judged relevant.
func (r EvalReport) RetrievalRelevanceRate() float64 {
	return r.rate(func(v Verdicts) bool { return v.RetrievalRelevance })
}

func (r EvalReport) rate(pick func(Verdicts) bool) float64 {
	if len(r.Rows) == 0 {
		return 0
	}
	n := 0
	for _, row := range r.Rows {
		if pick(row.Verdicts) {
			n++
		}
	}
	return float64(n) / float64(len(r.Rows))
}

// ModelAnswer is one entry of a multi-model comparison run.
type ModelAnswer struct {
	Model   string
	Answer  Answer
	Elapsed time.Duration
	Err     error
}
