package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/IdanZeman/fit-nutrition-web/internal/models"
)

type ProfileStore interface {
	Get(ctx context.Context, uid string) (*models.UserProfile, error)
	Set(ctx context.Context, profile *models.UserProfile) error
	Update(ctx context.Context, uid string, fields bson.M) (*models.UserProfile, error)
}

type ProfileService struct {
	profiles ProfileStore
}

func NewProfileService(profiles ProfileStore) *ProfileService {
	return &ProfileService{profiles: profiles}
}

func (s *ProfileService) Get(ctx context.Context, uid string) (*models.UserProfile, error) {
	return s.profiles.Get(ctx, uid)
}

// Ensure creates the identity-metadata-only profile document on first
// sign-in. An existing document, submitted or not, is left untouched.
func (s *ProfileService) Ensure(ctx context.Context, ident models.Identity) error {
	existing, err := s.profiles.Get(ctx, ident.UID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	return s.profiles.Set(ctx, &models.UserProfile{
		UID:         ident.UID,
		Email:       ident.Email,
		DisplayName: ident.DisplayName,
		CreatedAt:   time.Now(),
	})
}

// SubmitAnswers rewrites the whole profile document from a completed wizard
// answer map plus identity metadata and a fresh creation timestamp. This is
// an overwrite, not a merge: the wizard submission is the document.
func (s *ProfileService) SubmitAnswers(ctx context.Context, ident models.Identity, answers map[string]string) error {
	profile, err := profileFromAnswers(ident, answers)
	if err != nil {
		return err
	}
	return s.profiles.Set(ctx, profile)
}

// UpdateProfileInput carries the individually editable questionnaire fields
// for the profile-editing view. Nil means "leave unchanged".
type UpdateProfileInput struct {
	HeightCM           *float64
	WeightKG           *float64
	Age                *int
	Gender             *string
	WeeklyRunFrequency *string
	RunningPaceSec     *int
	ExerciseTime       *string
	CoffeeIntake       *string
	WeightGoalKG       *float64
}

// UpdatePartial merge-updates the provided fields. It fails with the store's
// not-found error when the profile was never created; there is no upsert
// through this path.
func (s *ProfileService) UpdatePartial(ctx context.Context, uid string, input UpdateProfileInput) (*models.UserProfile, error) {
	fields := bson.M{}
	if input.HeightCM != nil {
		fields["height"] = *input.HeightCM
	}
	if input.WeightKG != nil {
		fields["weight"] = *input.WeightKG
	}
	if input.Age != nil {
		fields["age"] = *input.Age
	}
	if input.Gender != nil {
		fields["gender"] = *input.Gender
	}
	if input.WeeklyRunFrequency != nil {
		fields["weeklyRunFrequency"] = *input.WeeklyRunFrequency
	}
	if input.RunningPaceSec != nil {
		fields["runningPace"] = *input.RunningPaceSec
	}
	if input.ExerciseTime != nil {
		fields["exerciseTime"] = *input.ExerciseTime
	}
	if input.CoffeeIntake != nil {
		fields["coffeeIntake"] = *input.CoffeeIntake
	}
	if input.WeightGoalKG != nil {
		fields["weightGoal"] = *input.WeightGoalKG
	}
	return s.profiles.Update(ctx, uid, fields)
}

func profileFromAnswers(ident models.Identity, answers map[string]string) (*models.UserProfile, error) {
	height, err := parseFloatAnswer(answers, "height")
	if err != nil {
		return nil, err
	}
	weight, err := parseFloatAnswer(answers, "weight")
	if err != nil {
		return nil, err
	}
	age, err := parseIntAnswer(answers, "age")
	if err != nil {
		return nil, err
	}
	pace, err := parseIntAnswer(answers, "runningPace")
	if err != nil {
		return nil, err
	}
	weightGoal, err := parseFloatAnswer(answers, "weightGoal")
	if err != nil {
		return nil, err
	}

	gender := answers["gender"]
	runFrequency := answers["weeklyRunFrequency"]
	exerciseTime := answers["exerciseTime"]
	coffeeIntake := answers["coffeeIntake"]

	return &models.UserProfile{
		UID:                ident.UID,
		Email:              ident.Email,
		DisplayName:        ident.DisplayName,
		HeightCM:           &height,
		WeightKG:           &weight,
		Age:                &age,
		Gender:             &gender,
		WeeklyRunFrequency: &runFrequency,
		RunningPaceSec:     &pace,
		ExerciseTime:       &exerciseTime,
		CoffeeIntake:       &coffeeIntake,
		WeightGoalKG:       &weightGoal,
		CreatedAt:          time.Now(),
	}, nil
}

func parseFloatAnswer(answers map[string]string, field string) (float64, error) {
	v, err := strconv.ParseFloat(answers[field], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s answer %q", field, answers[field])
	}
	return v, nil
}

func parseIntAnswer(answers map[string]string, field string) (int, error) {
	v, err := strconv.Atoi(answers[field])
	if err != nil {
		return 0, fmt.Errorf("invalid %s answer %q", field, answers[field])
	}
	return v, nil
}
