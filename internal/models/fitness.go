package models

import "time"

type Workout struct {
	ID              int64      `json:"id"`
	Date            string     `json:"date"`
	WorkoutType     string     `json:"workout_type"`
	Name            string     `json:"name"`
	DurationMinutes *int       `json:"duration_minutes"`
	Notes           *string    `json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
	Exercises       []Exercise `json:"exercises"`
}

type Exercise struct {
	ID        int64     `json:"id"`
	WorkoutID int64     `json:"workout_id"`
	Name      string    `json:"name"`
	Sets      int       `json:"sets"`
	Reps      int       `json:"reps"`
	Weight    *float64  `json:"weight"`
	CreatedAt time.Time `json:"created_at"`
}

// ExerciseHistory is one past performance of a named exercise.
type ExerciseHistory struct {
	Date   string   `json:"date"`
	Sets   int      `json:"sets"`
	Reps   int      `json:"reps"`
	Weight *float64 `json:"weight"`
}

type WorkoutTemplate struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	WorkoutType   string    `json:"workout_type"`
	ExercisesJSON string    `json:"exercises_json"`
	CreatedAt     time.Time `json:"created_at"`
}
