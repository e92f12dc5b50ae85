package model

import (
	"encoding/json"
)

// Outcome is either a Success or a Failure.
type Outcome interface {
	isOutcome()
}

// Success records the committed file for a draft.
type Success struct {
	Path   string
	Commit string
}

// Failure records why a draft was not committed. Status is zero when the
// gateway was never reached.
type Failure struct {
	Status           int
	Message          string
	DocumentationURL string
}

func (Success) isOutcome() {}
func (Failure) isOutcome() {}

// PublishResult is the outcome of publishing one draft.
type PublishResult struct {
	Draft   string
	Outcome Outcome
}

func (r PublishResult) OK() bool {
	_, ok := r.Outcome.(Success)
	return ok
}

type publishResultJSON struct {
	Draft            string `json:"draft"`
	OK               bool   `json:"ok"`
	File             string `json:"file,omitempty"`
	Commit           string `json:"commit,omitempty"`
	Status           int    `json:"status,omitempty"`
	Error            string `json:"error,omitempty"`
	DocumentationURL string `json:"documentation_url,omitempty"`
}

func (r PublishResult) MarshalJSON() ([]byte, error) {
	out := publishResultJSON{Draft: r.Draft}
	switch o := r.Outcome.(type) {
	case Success:
		out.OK = true
		out.File = o.Path
		out.Commit = o.Commit
	case Failure:
		out.Status = o.Status
		out.Error = o.Message
		out.DocumentationURL = o.DocumentationURL
	}
	return json.Marshal(out)
}

func (r *PublishResult) UnmarshalJSON(data []byte) error {
	var in publishResultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	r.Draft = in.Draft
	if in.OK {
		r.Outcome = Success{Path: in.File, Commit: in.Commit}
	} else {
		r.Outcome = Failure{Status: in.Status, Message: in.Error, DocumentationURL: in.DocumentationURL}
	}
	return nil
}

// Report holds one PublishResult per submitted draft, in submission order.
type Report struct {
	Results []PublishResult `json:"results"`
}

func NewReport(size int) Report {
	return Report{Results: make([]PublishResult, 0, size)}
}

// OK reports whether every draft was published. An empty report is OK.
func (r Report) OK() bool {
	return r.Failed() == 0
}

func (r Report) Failed() int {
	failed := 0
	for _, res := range r.Results {
		if !res.OK() {
			failed++
		}
	}
	return failed
}
