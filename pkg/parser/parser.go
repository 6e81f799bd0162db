// Package parser turns workout notation such as
//
//	1 mile warmup + 3 x (0.5 miles @z3 + 1 mile recovery) + 0.5 miles cooldown
//
// into a workout.Workout.
package parser

import (
	"strconv"
	"strings"

	"github.com/dashrun/dash/pkg/workout"
)

// Parse parses a whole workout. Failures are returned as *Error.
func Parse(input string) (workout.Workout, error) {
	tokens, err := lex(input)
	if err != nil {
		return workout.Workout{}, err
	}
	p := &parser{input: input, tokens: tokens}
	w, perr := p.workout()
	if perr != nil {
		return workout.Workout{}, perr
	}
	return w, nil
}

// MustParse is like Parse but panics on error.
func MustParse(input string) workout.Workout {
	w, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return w
}

type itemKind int

const (
	itemBlock itemKind = iota
	itemWarmup
	itemCooldown
)

type item struct {
	kind  itemKind
	pos   int
	step  workout.WorkoutStep
	block workout.IntervalBlock
}

type parser struct {
	input  string
	tokens []token
	cur    int
}

func (p *parser) peek() token { return p.tokens[p.cur] }

func (p *parser) peekAt(n int) token {
	if p.cur+n < len(p.tokens) {
		return p.tokens[p.cur+n]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) next() token {
	t := p.tokens[p.cur]
	if t.kind != tokEOF {
		p.cur++
	}
	return t
}

func (p *parser) accept(kind tokenKind) bool {
	if p.peek().kind == kind {
		p.next()
		return true
	}
	return false
}

func (p *parser) acceptWord(word string) bool {
	if t := p.peek(); t.kind == tokWord && strings.EqualFold(t.text, word) {
		p.next()
		return true
	}
	return false
}

func (p *parser) workout() (workout.Workout, *Error) {
	if p.peek().kind == tokEOF {
		return workout.Workout{}, expected(p.input, p.peek(), "a distance or duration goal")
	}

	var items []item
	for {
		it, err := p.item()
		if err != nil {
			return workout.Workout{}, err
		}
		items = append(items, it)
		if !p.accept(tokPlus) {
			break
		}
	}
	if t := p.peek(); t.kind != tokEOF {
		return workout.Workout{}, expected(p.input, t, "'+'", "end of input")
	}

	var w workout.Workout
	for i, it := range items {
		switch it.kind {
		case itemWarmup:
			if i != 0 {
				return workout.Workout{}, newError(p.input, it.pos, "warmup must be the first step")
			}
			step := it.step
			w.Warmup = &step
		case itemCooldown:
			if i != len(items)-1 {
				return workout.Workout{}, newError(p.input, it.pos, "cooldown must be the last step")
			}
			step := it.step
			w.Cooldown = &step
		default:
			w.Intervals = append(w.Intervals, it.block)
		}
	}
	if len(w.Intervals) == 0 {
		return workout.Workout{}, newError(p.input, len(p.input), "expected at least one interval between warmup and cooldown")
	}
	return w, nil
}

func (p *parser) item() (item, *Error) {
	start := p.peek()
	if start.kind == tokNumber && isWord(p.peekAt(1), "x") {
		block, err := p.repeatBlock()
		if err != nil {
			return item{}, err
		}
		return item{kind: itemBlock, pos: start.pos, block: block}, nil
	}

	step, err := p.step()
	if err != nil {
		return item{}, err
	}
	switch {
	case p.acceptWord("warmup"):
		return item{kind: itemWarmup, pos: start.pos, step: step}, nil
	case p.acceptWord("cooldown"):
		return item{kind: itemCooldown, pos: start.pos, step: step}, nil
	}
	is := workout.IntervalStep{Step: step, HasRecovery: p.acceptWord("recovery")}
	return item{kind: itemBlock, pos: start.pos, block: workout.IntervalBlock{Steps: []workout.IntervalStep{is}}}, nil
}

func (p *parser) repeatBlock() (workout.IntervalBlock, *Error) {
	num := p.next()
	n, err := strconv.ParseUint(num.text, 10, 32)
	if err != nil {
		return workout.IntervalBlock{}, newError(p.input, num.pos, "repeat count must be a whole number")
	}
	if n == 0 {
		return workout.IntervalBlock{}, newError(p.input, num.pos, "repeat count must be positive")
	}
	p.next() // x

	if t := p.peek(); !p.accept(tokLParen) {
		return workout.IntervalBlock{}, expected(p.input, t, "'('")
	}

	block := workout.IntervalBlock{Repeats: workout.Repeats(uint32(n))}
	for {
		step, err := p.step()
		if err != nil {
			return workout.IntervalBlock{}, err
		}
		block.Steps = append(block.Steps, workout.IntervalStep{Step: step, HasRecovery: p.acceptWord("recovery")})
		if !p.accept(tokPlus) {
			break
		}
	}

	if t := p.peek(); !p.accept(tokRParen) {
		return workout.IntervalBlock{}, expected(p.input, t, "'+'", "')'")
	}
	return block, nil
}

func (p *parser) step() (workout.WorkoutStep, *Error) {
	goal, err := p.goal()
	if err != nil {
		return workout.WorkoutStep{}, err
	}
	step := workout.WorkoutStep{Goal: goal}
	if p.accept(tokAt) {
		alert, err := p.alert()
		if err != nil {
			return workout.WorkoutStep{}, err
		}
		step.Alert = alert
	}
	return step, nil
}

func (p *parser) goal() (workout.Goal, *Error) {
	num := p.peek()
	if num.kind != tokNumber {
		return workout.Goal{}, expected(p.input, num, "a distance or duration goal")
	}
	value, err := strconv.ParseFloat(num.text, 64)
	if err != nil {
		return workout.Goal{}, newError(p.input, num.pos, "bad number '"+num.text+"'")
	}
	p.next()

	unit := p.peek()
	if unit.kind == tokWord {
		if u, ok := workout.ParseLengthUnit(unit.text); ok {
			p.next()
			return workout.Distance(value, u), nil
		}
		if u, ok := workout.ParseTimeUnit(unit.text); ok {
			p.next()
			return workout.Duration(value, u), nil
		}
	}
	return workout.Goal{}, expected(p.input, unit, "a length unit", "a time unit")
}

func (p *parser) alert() (*workout.Alert, *Error) {
	t := p.peek()
	switch t.kind {
	case tokWord:
		zone, ok := workout.ParseHeartRateZone(t.text)
		if !ok {
			return nil, expected(p.input, t, "a heart rate zone (z1-z5)", "a pace")
		}
		p.next()
		return workout.HeartRate(zone), nil
	case tokClock, tokNumber:
		first, err := p.clock()
		if err != nil {
			return nil, err
		}
		if p.accept(tokDash) {
			second, err := p.clock()
			if err != nil {
				return nil, err
			}
			unit, err := p.paceUnit()
			if err != nil {
				return nil, err
			}
			return workout.PaceBetween(workout.Pace{Time: first, Unit: unit}, workout.Pace{Time: second, Unit: unit}), nil
		}
		unit, err := p.paceUnit()
		if err != nil {
			return nil, err
		}
		return workout.PaceThreshold(workout.Pace{Time: first, Unit: unit}), nil
	}
	return nil, expected(p.input, t, "a heart rate zone (z1-z5)", "a pace")
}

func (p *parser) clock() (float64, *Error) {
	t := p.peek()
	if t.kind != tokClock {
		return 0, expected(p.input, t, "a time (m:ss)")
	}
	secs, err := workout.ParseClock(t.text)
	if err != nil {
		return 0, newError(p.input, t.pos, err.Error())
	}
	if secs == 0 {
		return 0, newError(p.input, t.pos, workout.ErrBadPace.Error())
	}
	p.next()
	return secs, nil
}

func (p *parser) paceUnit() (workout.LengthUnit, *Error) {
	if t := p.peek(); !p.accept(tokSlash) {
		return 0, expected(p.input, t, "'/'", "'-'")
	}
	t := p.peek()
	if t.kind == tokWord {
		if u, ok := workout.ParseLengthUnit(t.text); ok {
			p.next()
			return u, nil
		}
	}
	return 0, expected(p.input, t, "a length unit")
}

func isWord(t token, word string) bool {
	return t.kind == tokWord && strings.EqualFold(t.text, word)
}
