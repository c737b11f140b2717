// Package extract turns unstructured receipt and bank-alert text into
// transaction fields. Every function here is pure: it reads only its
// arguments and the package's read-only keyword tables.
package extract

import "github.com/shopspring/decimal"

// Options holds the empirical thresholds of the extraction heuristics.
type Options struct {
	// WindowLines is how many lines after a keyword line are searched for an amount.
	WindowLines int
	// MaxPlausibleAmount bounds the fallback scan; larger values are treated as
	// phone numbers or reference IDs.
	MaxPlausibleAmount decimal.Decimal
	// TitleScanLines limits how far down the text a title is looked for.
	TitleScanLines int
	// TitleMaxLen truncates the chosen title.
	TitleMaxLen int
}

// DefaultOptions returns thresholds tuned for LKR receipts and SMS alerts.
func DefaultOptions() Options {
	return Options{
		WindowLines:        2,
		MaxPlausibleAmount: decimal.NewFromInt(10_000_000),
		TitleScanLines:     5,
		TitleMaxLen:        30,
	}
}

// Extractor applies the amount and title heuristics with a fixed Options.
type Extractor struct {
	opts Options
}

// New creates an Extractor. Zero-valued fields fall back to defaults.
func New(opts Options) *Extractor {
	def := DefaultOptions()
	if opts.WindowLines <= 0 {
		opts.WindowLines = def.WindowLines
	}
	if !opts.MaxPlausibleAmount.IsPositive() {
		opts.MaxPlausibleAmount = def.MaxPlausibleAmount
	}
	if opts.TitleScanLines <= 0 {
		opts.TitleScanLines = def.TitleScanLines
	}
	if opts.TitleMaxLen <= 0 {
		opts.TitleMaxLen = def.TitleMaxLen
	}
	return &Extractor{opts: opts}
}

// Options returns the effective options.
func (e *Extractor) Options() Options { return e.opts }
