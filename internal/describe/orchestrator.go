package describe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/TechTeamScibotix/iqautodeals-sync/internal/model"
)

// Orchestrator paces and validates generative description calls.
//
// Calls are serialized through a limiter with a fixed configurable gap — the
// generative service rate limit is the bottleneck, so this component must
// never be parallelized across vehicles in a run.
type Orchestrator struct {
	gen     TextGenerator
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewOrchestrator wires a generator behind the inter-call delay. gen may be
// nil (no API key configured); Describe then always returns the fallback.
func NewOrchestrator(gen TextGenerator, delay time.Duration, log zerolog.Logger) *Orchestrator {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Orchestrator{
		gen:     gen,
		limiter: rate.NewLimiter(limit, 1),
		log:     log,
	}
}

// Describe returns a description for the vehicle and whether it was
// generated. On any failure — no generator, service error, output that fails
// validation — it falls back to the feed's own text and reports
// generated=false, so the caller never sets the one-way customized flag on
// fallback text.
func (o *Orchestrator) Describe(ctx context.Context, v model.FeedVehicle, fallback string) (string, bool) {
	if o == nil || o.gen == nil {
		return fallback, false
	}

	if err := o.limiter.Wait(ctx); err != nil {
		return fallback, false
	}

	text, err := o.gen.Generate(ctx, Prompt(v))
	if err != nil {
		o.log.Warn().Err(err).Str("vin", v.VIN).Msg("description generation failed, using feed text")
		return fallback, false
	}

	text = strings.TrimSpace(text)
	if err := Validate(text); err != nil {
		o.log.Warn().Err(err).Str("vin", v.VIN).Msg("generated description rejected, using feed text")
		return fallback, false
	}

	return text, true
}

// Prompt renders the vehicle's normalized attributes into the generation
// request.
func Prompt(v model.FeedVehicle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a concise, factual used-car listing description for a %d %s %s", v.Year, v.Make, v.Model)
	if t := strings.TrimSpace(v.RawTrim); t != "" {
		fmt.Fprintf(&b, " %s", t)
	}
	fmt.Fprintf(&b, " with %d miles", v.Mileage)
	if v.Color != "" {
		fmt.Fprintf(&b, ", %s exterior", v.Color)
	}
	if v.Engine != "" {
		fmt.Fprintf(&b, ", %s engine", v.Engine)
	}
	if v.Transmission != "" {
		fmt.Fprintf(&b, ", %s transmission", v.Transmission)
	}
	b.WriteString(". Two short paragraphs, no pricing, no contact information, plain text only.")
	return b.String()
}

// Validation bounds for generated text.
const (
	minDescriptionLen = 40
	maxDescriptionLen = 4000
)

// refusalPrefixes catch the service echoing an error or refusing instead of
// producing listing copy.
var refusalPrefixes = []string{
	"i'm sorry",
	"i am sorry",
	"i cannot",
	"i can't",
	"as an ai",
	"error",
	"sorry,",
}

// Validate applies the minimal sanity rules for generated output.
func Validate(text string) error {
	t := strings.TrimSpace(text)
	if t == "" {
		return fmt.Errorf("empty output")
	}
	if len(t) < minDescriptionLen {
		return fmt.Errorf("output too short (%d chars)", len(t))
	}
	if len(t) > maxDescriptionLen {
		return fmt.Errorf("output too long (%d chars)", len(t))
	}
	lower := strings.ToLower(t)
	for _, p := range refusalPrefixes {
		if strings.HasPrefix(lower, p) {
			return fmt.Errorf("output looks like a service refusal or error echo")
		}
	}
	return nil
}
