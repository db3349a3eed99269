package handlers

import "strings"

var allowedGenders = map[string]struct{}{
	"male":   {},
	"female": {},
}

var allowedRunFrequencies = map[string]struct{}{
	"0":   {},
	"1-2": {},
	"3+":  {},
}

var allowedExerciseTimes = map[string]struct{}{
	"morning":   {},
	"noon":      {},
	"afternoon": {},
	"evening":   {},
}

var allowedCoffeeIntakes = map[string]struct{}{
	"0":   {},
	"1-2": {},
	"3-5": {},
	"5+":  {},
}

// Ranges match the wizard's slider constraints.
func validateProfileUpdateRequest(req updateProfileRequest) string {
	if req.HeightCM != nil && (*req.HeightCM < 100 || *req.HeightCM > 250) {
		return "height must be between 100 and 250"
	}
	if req.WeightKG != nil && (*req.WeightKG < 30 || *req.WeightKG > 200) {
		return "weight must be between 30 and 200"
	}
	if req.Age != nil && (*req.Age < 18 || *req.Age > 100) {
		return "age must be between 18 and 100"
	}
	if req.Gender != nil {
		if err := validateGender(*req.Gender); err != "" {
			return err
		}
	}
	if req.WeeklyRunFrequency != nil {
		if _, ok := allowedRunFrequencies[strings.TrimSpace(*req.WeeklyRunFrequency)]; !ok {
			return "weekly_run_frequency must be one of: 0, 1-2, 3+"
		}
	}
	if req.RunningPaceSec != nil && (*req.RunningPaceSec < 180 || *req.RunningPaceSec > 480) {
		return "running_pace_sec must be between 180 and 480"
	}
	if req.ExerciseTime != nil {
		if _, ok := allowedExerciseTimes[strings.TrimSpace(*req.ExerciseTime)]; !ok {
			return "exercise_time must be one of: morning, noon, afternoon, evening"
		}
	}
	if req.CoffeeIntake != nil {
		if _, ok := allowedCoffeeIntakes[strings.TrimSpace(*req.CoffeeIntake)]; !ok {
			return "coffee_intake must be one of: 0, 1-2, 3-5, 5+"
		}
	}
	if req.WeightGoalKG != nil && (*req.WeightGoalKG < 30 || *req.WeightGoalKG > 200) {
		return "weight_goal must be between 30 and 200"
	}
	return ""
}

func validateGender(gender string) string {
	if _, ok := allowedGenders[strings.TrimSpace(gender)]; !ok {
		return "gender must be one of: male, female"
	}
	return ""
}
