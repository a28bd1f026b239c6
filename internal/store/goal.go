package store

import (
	"database/sql"
	"fmt"
	"time"

	"eliteagenda/internal/model"
)

type GoalStore struct {
	db *sql.DB
}

func NewGoalStore(db *sql.DB) *GoalStore {
	return &GoalStore{db: db}
}

const goalCols = `id, title, description, target_date, category, progress, completed, created_at, updated_at`

func scanGoal(scanner interface{ Scan(...any) error }) (*model.Goal, error) {
	var g model.Goal
	var completed int
	err := scanner.Scan(&g.ID, &g.Title, &g.Description, &g.TargetDate, &g.Category,
		&g.Progress, &completed, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	g.Completed = completed != 0
	return &g, nil
}

func (s *GoalStore) Create(title, description string, targetDate time.Time, category string) (*model.Goal, error) {
	result, err := s.db.Exec(
		`INSERT INTO goals (title, description, target_date, category) VALUES (?, ?, ?, ?)`,
		title, description, targetDate.UTC(), category,
	)
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *GoalStore) GetByID(id int64) (*model.Goal, error) {
	row := s.db.QueryRow(`SELECT `+goalCols+` FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

func (s *GoalStore) List() ([]model.Goal, error) {
	rows, err := s.db.Query(`SELECT ` + goalCols + ` FROM goals ORDER BY target_date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []model.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (s *GoalStore) Update(id int64, title, description string, targetDate time.Time, category string) (*model.Goal, error) {
	_, err := s.db.Exec(
		`UPDATE goals SET title = ?, description = ?, target_date = ?, category = ?, updated_at = ? WHERE id = ?`,
		title, description, targetDate.UTC(), category, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return s.GetByID(id)
}

// ToggleCompleted flips the completed flag. Completing a goal forces
// progress to 100; un-completing leaves progress untouched.
func (s *GoalStore) ToggleCompleted(id int64) (*model.Goal, error) {
	_, err := s.db.Exec(
		`UPDATE goals
		 SET completed = 1 - completed,
		     progress = CASE WHEN completed = 0 THEN 100 ELSE progress END,
		     updated_at = ?
		 WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("toggle goal: %w", err)
	}
	return s.GetByID(id)
}

// SetProgress updates progress; a goal is completed exactly when progress
// reaches 100.
func (s *GoalStore) SetProgress(id int64, progress int) (*model.Goal, error) {
	if progress < 0 || progress > 100 {
		return nil, fmt.Errorf("progress %d out of range", progress)
	}
	var completed int
	if progress == 100 {
		completed = 1
	}
	_, err := s.db.Exec(
		`UPDATE goals SET progress = ?, completed = ?, updated_at = ? WHERE id = ?`,
		progress, completed, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("set goal progress: %w", err)
	}
	return s.GetByID(id)
}

func (s *GoalStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}
