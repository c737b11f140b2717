package pipeline

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/tallyup-dev/tallyup/internal/bankrules"
	"github.com/tallyup-dev/tallyup/internal/extract"
	"github.com/tallyup-dev/tallyup/internal/model"
)

const defaultWorkers = 4

// Outcome is what happened to one message.
type Outcome string

const (
	OutcomeDrafted      Outcome = "drafted"
	OutcomeOTP          Outcome = "otp"
	OutcomeUnrecognized Outcome = "unrecognized"
)

// SMSStats summarizes a batch run.
type SMSStats struct {
	Scanned      int `json:"scanned"`
	Drafted      int `json:"drafted"`
	OTP          int `json:"otp"`
	Unrecognized int `json:"unrecognized"`
}

// SMSPipeline turns a batch of SMS messages into drafts.
type SMSPipeline struct {
	matcher *bankrules.Matcher
	workers int
	log     zerolog.Logger
}

// SMSOption configures an SMSPipeline.
type SMSOption func(*SMSPipeline)

// WithSMSLogger sets the logger.
func WithSMSLogger(l zerolog.Logger) SMSOption {
	return func(p *SMSPipeline) { p.log = l }
}

// WithWorkers sets how many messages are evaluated concurrently.
func WithWorkers(n int) SMSOption {
	return func(p *SMSPipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// NewSMSPipeline creates an SMSPipeline over m.
func NewSMSPipeline(m *bankrules.Matcher, opts ...SMSOption) *SMSPipeline {
	p := &SMSPipeline{
		matcher: m,
		workers: defaultWorkers,
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Evaluate processes a single message.
func (p *SMSPipeline) Evaluate(msg model.RawMessage) (model.Draft, Outcome) {
	if extract.IsOTP(msg.Body) {
		return model.Draft{}, OutcomeOTP
	}
	m, ok := p.matcher.Match(msg.Body, msg.Date)
	if !ok {
		return model.Draft{}, OutcomeUnrecognized
	}
	return draftFromMatch(msg, m), OutcomeDrafted
}

// Run evaluates every message and returns the drafts in input order.
// Messages that are OTPs or not recognized are dropped silently.
func (p *SMSPipeline) Run(msgs []model.RawMessage) ([]model.Draft, SMSStats) {
	drafts := make([]model.Draft, len(msgs))
	outcomes := make([]Outcome, len(msgs))

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i := range msgs {
		g.Go(func() error {
			drafts[i], outcomes[i] = p.Evaluate(msgs[i])
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	stats := SMSStats{Scanned: len(msgs)}
	var out []model.Draft
	for i, o := range outcomes {
		switch o {
		case OutcomeDrafted:
			stats.Drafted++
			out = append(out, drafts[i])
			continue
		case OutcomeOTP:
			stats.OTP++
		case OutcomeUnrecognized:
			stats.Unrecognized++
		}
		p.log.Debug().Str("sms_id", msgs[i].ID).Str("reason", string(o)).Msg("sms skipped")
	}
	return out, stats
}

func draftFromMatch(msg model.RawMessage, m bankrules.Match) model.Draft {
	dir := m.Polarity.Direction()
	category := m.Category
	if category == "" {
		category = extract.ClassifyCategory(m.Reason+"\n"+msg.Body, dir).Category
	} else if dir == model.DirectionIncome && !category.AllowedForIncome() {
		category = model.CategorySalary
	}

	return model.Draft{
		Amount:     decimal.NewNullDecimal(m.Amount),
		Direction:  dir,
		Category:   category,
		Title:      m.Title(),
		Note:       smsNotePrefix + msg.Body,
		OccurredAt: m.Date,
		Confidence: matchConfidence(m),
		SourceRef:  msg.ID,
		Bank:       m.Bank,
		Reason:     m.Reason,
	}
}

// matchConfidence grades an SMS draft by how specific the rule match was.
func matchConfidence(m bankrules.Match) model.Confidence {
	signals := 1 // amount and direction resolved
	if m.RuleKey != bankrules.GenericRuleKey {
		signals++
	}
	if m.DateFromBody {
		signals++
	}
	return extract.AlertConfidence(signals)
}
