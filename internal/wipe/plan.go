package wipe

import "fmt"

// MinSecureFlipPasses is the smallest pass count that lets SecureFlip write
// both of its fill bytes.
const MinSecureFlipPasses = 2

// Pass is one full-length overwrite of the target.
type Pass struct {
	Index   int // 1-based
	Pattern Pattern
}

// Plan: упорядоченный список проходов для одного запуска
type Plan struct {
	Mode      Mode
	Requested int // число проходов после приведения к минимуму 1
	Passes    []Pass
	Upgraded  bool
}

// NewPlan нормализует количество проходов и строит план.
// Значения <= 0 приводятся к 1, SecureFlip поднимается минимум до 2 проходов.
func NewPlan(mode Mode, requested int) Plan {
	if requested < 1 {
		requested = 1
	}

	plan := Plan{
		Mode:      mode,
		Requested: requested,
	}

	passes := requested
	if mode == ModeSecureFlip && passes < MinSecureFlipPasses {
		passes = MinSecureFlipPasses
		plan.Upgraded = true
	}

	plan.Passes = make([]Pass, passes)
	for i := range plan.Passes {
		plan.Passes[i] = Pass{
			Index:   i + 1,
			Pattern: PatternFor(mode, i+1),
		}
	}

	return plan
}

// Len returns the normalized pass count.
func (p Plan) Len() int {
	return len(p.Passes)
}

// Final returns the pattern of the last pass, i.e. what the target holds after
// a successful run.
func (p Plan) Final() Pattern {
	if len(p.Passes) == 0 {
		return PatternFor(p.Mode, 1)
	}
	return p.Passes[len(p.Passes)-1].Pattern
}

// Notice returns the message shown to the operator when the pass count was
// raised, or "" if the plan kept the requested count.
func (p Plan) Notice() string {
	if !p.Upgraded {
		return ""
	}
	return fmt.Sprintf("As you are using '%s', passes changed from %d to %d",
		p.Mode.DisplayName(), p.Requested, len(p.Passes))
}
