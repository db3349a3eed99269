package models

import "time"

// UserProfile is the single questionnaire document stored per user in the
// "users" collection. The document id is the user's uid; questionnaire
// fields are pointers so a freshly ensured profile (identity metadata only)
// is distinguishable from a submitted one.
type UserProfile struct {
	UID                string    `bson:"_id" json:"uid"`
	Email              string    `bson:"email" json:"email"`
	DisplayName        string    `bson:"displayName" json:"display_name"`
	HeightCM           *float64  `bson:"height,omitempty" json:"height"`
	WeightKG           *float64  `bson:"weight,omitempty" json:"weight"`
	Age                *int      `bson:"age,omitempty" json:"age"`
	Gender             *string   `bson:"gender,omitempty" json:"gender"`
	WeeklyRunFrequency *string   `bson:"weeklyRunFrequency,omitempty" json:"weekly_run_frequency"`
	RunningPaceSec     *int      `bson:"runningPace,omitempty" json:"running_pace_sec"`
	ExerciseTime       *string   `bson:"exerciseTime,omitempty" json:"exercise_time"`
	CoffeeIntake       *string   `bson:"coffeeIntake,omitempty" json:"coffee_intake"`
	WeightGoalKG       *float64  `bson:"weightGoal,omitempty" json:"weight_goal"`
	CreatedAt          time.Time `bson:"createdAt" json:"created_at"`
}

// Complete reports whether the questionnaire has been submitted: the wizard
// rejects partial saves, so any questionnaire field being set means all are.
func (p *UserProfile) Complete() bool {
	return p != nil && p.HeightCM != nil && p.WeightKG != nil && p.Age != nil &&
		p.Gender != nil && p.WeeklyRunFrequency != nil && p.RunningPaceSec != nil &&
		p.ExerciseTime != nil && p.CoffeeIntake != nil && p.WeightGoalKG != nil
}
