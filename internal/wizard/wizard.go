package wizard

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	msgAnswerRequired    = "Please answer the question before moving on."
	msgAllFieldsRequired = "All fields are required."
	msgSaveFailed        = "Failed to save data. Please try again."
	msgSubmitted         = "Your profile has been successfully submitted!"

	dashboardRoute = "/dashboard"
	redirectDelay  = 2 * time.Second
)

// SaveFunc writes the complete answer map to the profile store. The wizard
// calls it at most once per submission attempt.
type SaveFunc func(ctx context.Context, answers map[string]string) error

// Redirect is the single navigation scheduled after a successful submission.
type Redirect struct {
	To    string
	After time.Duration
}

// Wizard is the linear single-active-step form state machine. Answers are
// kept as form values (strings) so emptiness means the same thing for
// sliders, pickers and free text. All state is in memory and dies with the
// instance.
type Wizard struct {
	mu         sync.Mutex
	id         string
	questions  []Question
	answers    map[string]string
	step       int
	err        string
	submitting bool
	success    string
	redirect   *Redirect
}

func New() *Wizard {
	return NewWithQuestions(Questions())
}

func NewWithQuestions(questions []Question) *Wizard {
	answers := make(map[string]string, len(questions))
	for _, q := range questions {
		answers[q.Name] = q.Default
	}
	return &Wizard{
		id:        uuid.NewString(),
		questions: questions,
		answers:   answers,
	}
}

// SetAnswer overwrites the value for field. Values are not validated here;
// emptiness is only checked when advancing or submitting. Changing the weight
// also applies the weight-goal rule.
func (w *Wizard) SetAnswer(field, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitting {
		return fmt.Errorf("submission in progress")
	}
	if _, ok := w.answers[field]; !ok {
		return fmt.Errorf("unknown field %q", field)
	}
	w.answers[field] = value
	if field == "weight" {
		w.applyWeightGoalRule(value)
	}
	return nil
}

// applyWeightGoalRule moves the weight goal to five kilograms under the
// chosen weight whenever the weight answer changes. Carried over from the
// original product behavior; kept as a named rule instead of a side effect
// buried in the change handler.
func (w *Wizard) applyWeightGoalRule(weight string) {
	v, err := strconv.ParseFloat(weight, 64)
	if err != nil {
		return
	}
	w.answers["weightGoal"] = strconv.FormatFloat(v-5, 'f', -1, 64)
}

// Advance moves to the next step. An empty answer on the current step blocks
// the move and sets the inline error; the step never passes the last one.
func (w *Wizard) Advance() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitting {
		return false
	}
	if w.answers[w.questions[w.step].Name] == "" {
		w.err = msgAnswerRequired
		return false
	}
	w.err = ""
	if w.step < len(w.questions)-1 {
		w.step++
	}
	return true
}

// Retreat moves to the previous step, floored at the first, and clears any
// inline error.
func (w *Wizard) Retreat() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitting {
		return
	}
	w.err = ""
	if w.step > 0 {
		w.step--
	}
}

// Submit validates that every answer is present and writes the full answer
// map through save exactly once. On success it records the success message
// and schedules the one redirect to the dashboard; on failure it sets a
// generic error and leaves the wizard resubmittable. There is no retry.
func (w *Wizard) Submit(ctx context.Context, save SaveFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitting {
		return
	}
	w.err = ""
	w.success = ""
	w.submitting = true

	for _, q := range w.questions {
		if w.answers[q.Name] == "" {
			w.err = msgAllFieldsRequired
			w.submitting = false
			return
		}
	}

	answers := make(map[string]string, len(w.answers))
	for k, v := range w.answers {
		answers[k] = v
	}
	if err := save(ctx, answers); err != nil {
		w.err = msgSaveFailed
		w.submitting = false
		return
	}

	w.success = msgSubmitted
	w.redirect = &Redirect{To: dashboardRoute, After: redirectDelay}
	w.submitting = false
}

func (w *Wizard) ID() string {
	return w.id
}

func (w *Wizard) Step() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) Err() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *Wizard) Success() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.success
}

func (w *Wizard) Answer(field string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.answers[field]
}

func (w *Wizard) Redirect() *Redirect {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.redirect == nil {
		return nil
	}
	r := *w.redirect
	return &r
}

// StepView is the rendering contract: one input surface and one formatted
// value for the current step.
type StepView struct {
	WizardID   string   `json:"wizard_id"`
	Step       int      `json:"step"`
	Of         int      `json:"of"`
	Name       string   `json:"name"`
	Label      string   `json:"label"`
	Kind       Kind     `json:"kind"`
	Min        int      `json:"min,omitempty"`
	Max        int      `json:"max,omitempty"`
	StepSize   int      `json:"step_size,omitempty"`
	Options    []string `json:"options,omitempty"`
	Value      string   `json:"value"`
	Display    string   `json:"display"`
	Error      string   `json:"error,omitempty"`
	Success    string   `json:"success,omitempty"`
	Submitting bool     `json:"submitting"`
}

func (w *Wizard) CurrentStep() StepView {
	w.mu.Lock()
	defer w.mu.Unlock()

	q := w.questions[w.step]
	value := w.answers[q.Name]
	display := value
	if q.Format != nil {
		display = q.Format(value)
	}
	return StepView{
		WizardID:   w.id,
		Step:       w.step,
		Of:         len(w.questions),
		Name:       q.Name,
		Label:      q.Label,
		Kind:       q.Kind,
		Min:        q.Min,
		Max:        q.Max,
		StepSize:   q.Step,
		Options:    q.Options,
		Value:      value,
		Display:    display,
		Error:      w.err,
		Success:    w.success,
		Submitting: w.submitting,
	}
}
