package wizard

import (
	"strconv"

	"github.com/IdanZeman/fit-nutrition-web/pkg/utils"
)

type Kind string

const (
	KindSlider Kind = "slider"
	KindSelect Kind = "select"
	KindText   Kind = "text"
)

// Question is one step of the questionnaire. The wizard core treats the
// schema as configuration: it only ever shows the current definition and the
// current value, formatted through Format when one is set.
type Question struct {
	Name    string
	Label   string
	Kind    Kind
	Min     int
	Max     int
	Step    int
	Options []string
	Default string
	Format  func(value string) string
}

// Questions returns the questionnaire schema in presentation order.
func Questions() []Question {
	return []Question{
		{Name: "height", Label: "Height (cm)", Kind: KindSlider, Min: 100, Max: 250, Step: 1, Default: "170"},
		{Name: "weight", Label: "Weight (kg)", Kind: KindSlider, Min: 30, Max: 200, Step: 1, Default: "70"},
		{Name: "age", Label: "Age", Kind: KindSlider, Min: 18, Max: 100, Step: 1, Default: "25"},
		{Name: "gender", Label: "Gender", Kind: KindSelect, Options: []string{"male", "female"}},
		{Name: "weeklyRunFrequency", Label: "Weekly Run Frequency", Kind: KindSelect, Options: []string{"0", "1-2", "3+"}},
		{Name: "runningPace", Label: "Running Pace (min/km)", Kind: KindSlider, Min: 180, Max: 480, Step: 10, Default: "180", Format: formatPace},
		{Name: "exerciseTime", Label: "Preferred Exercise Time", Kind: KindSelect, Options: []string{"morning", "noon", "afternoon", "evening"}},
		{Name: "coffeeIntake", Label: "Coffee Intake", Kind: KindSelect, Options: []string{"0", "1-2", "3-5", "5+"}},
		{Name: "weightGoal", Label: "Weight Goal (kg)", Kind: KindSlider, Min: 30, Max: 200, Step: 1, Default: "63"},
	}
}

// formatPace shows the pace slider's raw seconds-per-km as m:ss.
func formatPace(value string) string {
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return value
	}
	return utils.FormatPace(seconds)
}
