// Package insight produces a plain-language narrative of a salary
// calculation through an external text-generation service.
//
// Explain never fails: a missing credential, a service error or an empty
// answer all resolve to a fixed user-facing message.
package insight

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Simplici0/salario/internal/logging"
	"github.com/Simplici0/salario/internal/payroll"
)

// Fallback messages shown instead of a narrative.
const (
	MessageNotConfigured = "API Key não configurada. Não é possível gerar análise com IA."
	MessageEmpty         = "Não foi possível gerar a análise no momento."
	MessageFailed        = "Ocorreu um erro ao consultar o assistente de IA."
)

const defaultTimeout = 30 * time.Second

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Cache memoizes generated narratives by fingerprint.
type Cache interface {
	Get(ctx context.Context, fingerprint string) (string, bool, error)
	Put(ctx context.Context, fingerprint, model, body string) error
}

// Explainer wraps a Generator with fallbacks, a timeout and an optional cache.
type Explainer struct {
	gen     Generator
	cache   Cache
	timeout time.Duration
	log     *logrus.Entry
}

// Option configures an Explainer.
type Option func(*Explainer)

// WithCache enables response memoization.
func WithCache(c Cache) Option {
	return func(e *Explainer) { e.cache = c }
}

// WithTimeout bounds each generation call.
func WithTimeout(d time.Duration) Option {
	return func(e *Explainer) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewExplainer returns an Explainer. A nil generator means the feature is
// disabled.
func NewExplainer(gen Generator, opts ...Option) *Explainer {
	e := &Explainer{
		gen:     gen,
		timeout: defaultTimeout,
		log:     logging.For("insight"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enabled reports whether a generator is configured.
func (e *Explainer) Enabled() bool {
	return e != nil && e.gen != nil
}

// Explain returns the narrative for a calculation, or a fallback message.
func (e *Explainer) Explain(ctx context.Context, in payroll.Input, res payroll.Result) string {
	if !e.Enabled() {
		return MessageNotConfigured
	}

	key := Fingerprint(in, e.gen.Model())
	if e.cache != nil {
		body, ok, err := e.cache.Get(ctx, key)
		if err != nil {
			e.log.WithError(err).Warn("insight cache lookup failed")
		} else if ok {
			return body
		}
	}

	prompt, err := BuildPrompt(in, res)
	if err != nil {
		e.log.WithError(err).Error("build insight prompt")
		return MessageFailed
	}

	genCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	text, err := e.gen.Generate(genCtx, prompt)
	if err != nil {
		e.log.WithError(err).WithField("model", e.gen.Model()).Error("insight generation failed")
		return MessageFailed
	}
	text = strings.TrimSpace(text)
	if text == "" {
		e.log.WithField("model", e.gen.Model()).Warn("insight generation returned no text")
		return MessageEmpty
	}
	e.log.WithFields(logrus.Fields{
		"model":   e.gen.Model(),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("insight generated")

	if e.cache != nil {
		if err := e.cache.Put(ctx, key, e.gen.Model(), text); err != nil {
			e.log.WithError(err).Warn("insight cache store failed")
		}
	}
	return text
}

// Fingerprint identifies an input for a given model.
func Fingerprint(in payroll.Input, model string) string {
	var b strings.Builder
	b.WriteString(model)
	b.WriteByte('|')
	b.WriteString(in.GrossSalary.String())
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(in.Dependents))
	b.WriteByte('|')
	b.WriteString(in.OtherDiscounts.String())

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
