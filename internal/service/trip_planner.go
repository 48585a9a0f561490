package service

import (
	"context"
	"log"

	"tripwise/internal/ai"
	"tripwise/internal/modules/itinerary"
)

// Stage names the lifecycle step a request failed in.
type Stage string

const (
	StageQuery     Stage = "query"
	StageRecall    Stage = "recall"
	StageQuota     Stage = "quota"
	StageInvoke    Stage = "invoke"
	StageNormalize Stage = "normalize"
	StageValidate  Stage = "validate"
	StageSchedule  Stage = "schedule"
	StageRecord    Stage = "record"
)

// FailurePrefix starts every text-mode failure message.
const FailurePrefix = "⚠️ Could not generate itinerary. Error: "

// StageError carries the failing stage. Its message is the underlying error's, unchanged.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

// PreferenceMemory recalls and records a user's earlier queries.
type PreferenceMemory interface {
	Recall(ctx context.Context, userID, queryText string, k int) (string, error)
	Record(ctx context.Context, userID, queryText string, output any) error
}

// Quota consumes one generation from a user's allowance.
type Quota interface {
	UseToken(ctx context.Context, uid string) error
}

// Enricher fills missing activity details in place.
type Enricher interface {
	EnrichRatings(ctx context.Context, it *itinerary.Itinerary) (int, error)
}

// Result is a successfully planned trip.
type Result struct {
	Itinerary *itinerary.Itinerary `json:"itinerary"`
	Text      string               `json:"text"`
}

// Option configures a Planner.
type Option func(*Planner)

func WithPreferences(m PreferenceMemory, topK int) Option {
	return func(p *Planner) {
		p.prefs = m
		p.topK = topK
	}
}

func WithQuota(q Quota) Option {
	return func(p *Planner) { p.quota = q }
}

func WithEnricher(e Enricher) Option {
	return func(p *Planner) { p.enricher = e }
}

// WithStrictSchedule makes the planner reject itineraries whose day count or
// dates do not match the request.
func WithStrictSchedule(strict bool) Option {
	return func(p *Planner) { p.strict = strict }
}

// Planner turns a trip request into a validated, rendered itinerary with one model call.
type Planner struct {
	llm       ai.LLMProvider
	validator *itinerary.Validator

	prefs    PreferenceMemory
	topK     int
	quota    Quota
	enricher Enricher
	strict   bool
}

func NewPlanner(llm ai.LLMProvider, opts ...Option) (*Planner, error) {
	validator, err := itinerary.NewValidator()
	if err != nil {
		return nil, err
	}
	p := &Planner{llm: llm, validator: validator}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func fail(stage Stage, userID string, err error) error {
	log.Printf("planner: %s failed (user=%q): %v", stage, userID, err)
	return &StageError{Stage: stage, Err: err}
}

// Plan expands a one-line query, then runs recall, quota, prompt, model call,
// normalization, validation, the optional schedule check, enrichment, record
// and render, in that order.
func (p *Planner) Plan(ctx context.Context, req itinerary.Request) (*Result, error) {
	req, err := itinerary.ApplyQuery(req)
	if err != nil {
		return nil, fail(StageQuery, req.UserID, err)
	}

	query := itinerary.QueryText(req)
	preferences := req.UserPreferences

	if p.prefs != nil && req.UserID != "" {
		history, err := p.prefs.Recall(ctx, req.UserID, query, p.topK)
		if err != nil {
			return nil, fail(StageRecall, req.UserID, err)
		}
		preferences = itinerary.MergePreferences(history, req.UserPreferences)
	}

	if p.quota != nil && req.UserID != "" {
		if err := p.quota.UseToken(ctx, req.UserID); err != nil {
			return nil, fail(StageQuota, req.UserID, err)
		}
	}

	prompt := itinerary.BuildPrompt(req, preferences)

	raw, err := p.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, fail(StageInvoke, req.UserID, err)
	}

	doc, err := itinerary.Normalize(raw)
	if err != nil {
		return nil, fail(StageNormalize, req.UserID, err)
	}

	it, err := p.validator.Validate(doc)
	if err != nil {
		return nil, fail(StageValidate, req.UserID, err)
	}

	if p.strict {
		if err := itinerary.CheckSchedule(it, req.TripDuration, req.StartDate); err != nil {
			return nil, fail(StageSchedule, req.UserID, err)
		}
	}

	if p.enricher != nil {
		if n, err := p.enricher.EnrichRatings(ctx, it); err != nil {
			log.Printf("planner: enrichment incomplete (%d filled): %v", n, err)
		}
	}

	if p.prefs != nil && req.UserID != "" {
		if err := p.prefs.Record(ctx, req.UserID, query, it); err != nil {
			return nil, fail(StageRecord, req.UserID, err)
		}
	}

	return &Result{Itinerary: it, Text: itinerary.Render(it)}, nil
}

// PlanText returns the rendered itinerary, or a warning line carrying the
// failure message.
func (p *Planner) PlanText(ctx context.Context, req itinerary.Request) string {
	res, err := p.Plan(ctx, req)
	if err != nil {
		return FailurePrefix + err.Error()
	}
	return res.Text
}
