package repository

import (
	"gorm.io/gorm"

	"github.com/davidmorenoc/taskboard-api/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id string, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListByTeams retrieves every task belonging to the given teams
func (r *GormTaskRepository) ListByTeams(teamIDs []string) ([]models.Task, error) {
	tasks := []models.Task{}
	if len(teamIDs) == 0 {
		return tasks, nil
	}

	err := r.db.
		Preload("Assignees").
		Preload("Assignees.Profile").
		Where("team_id IN ?", teamIDs).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// ListAssignedTo retrieves every task on which the user holds an assignment row
func (r *GormTaskRepository) ListAssignedTo(userID string) ([]models.Task, error) {
	tasks := []models.Task{}

	assignmentSubQuery := r.db.Model(&models.TaskAssignee{}).
		Select("1").
		Where("task_assignees.task_id = tasks.id").
		Where("task_assignees.user_id = ?", userID)

	err := r.db.
		Preload("Assignees").
		Preload("Assignees.Profile").
		Where("EXISTS (?)", assignmentSubQuery).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// UpdateState sets a task's lane and refreshes updated_at
func (r *GormTaskRepository) UpdateState(id string, state models.TaskState) (*models.Task, error) {
	res := r.db.Model(&models.Task{}).
		Where("id = ?", id).
		Update("state", state)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.FindByID(id, "Assignees", "Assignees.Profile")
}

// AssignPoints creates or increments the assignment row and recomputes the
// task's aggregate counters inside a single transaction. The per-row
// increment and the counter update both happen SQL-side, so concurrent
// assigners cannot lose updates, and puntos_asign is recomputed from the
// rows rather than carried as a running delta.
func (r *GormTaskRepository) AssignPoints(taskID, userID string, points int) (*LedgerTotals, error) {
	var totals LedgerTotals

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Select("id").First(&task, "id = ?", taskID).Error; err != nil {
			return err
		}

		res := tx.Model(&models.TaskAssignee{}).
			Where("task_id = ? AND user_id = ?", taskID, userID).
			Update("points", gorm.Expr("points + ?", points))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			assignment := models.TaskAssignee{
				TaskID: taskID,
				UserID: userID,
				Points: points,
			}
			if err := tx.Create(&assignment).Error; err != nil {
				return err
			}
		}

		// puntos_asign becomes the sum over live rows; puntos_total only
		// ever grows by the newly granted amount.
		sum := tx.Model(&models.TaskAssignee{}).
			Select("COALESCE(SUM(points), 0)").
			Where("task_id = ?", taskID)
		if err := tx.Model(&models.Task{}).
			Where("id = ?", taskID).
			Updates(map[string]interface{}{
				"puntos_asign": sum,
				"puntos_total": gorm.Expr("puntos_total + ?", points),
			}).Error; err != nil {
			return err
		}

		if err := tx.Select("puntos_asign", "puntos_total").
			First(&task, "id = ?", taskID).Error; err != nil {
			return err
		}
		totals = LedgerTotals{PuntosAsign: task.PuntosAsign, PuntosTotal: task.PuntosTotal}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &totals, nil
}

// UnassignPoints deletes the assignment row and recomputes puntos_asign
func (r *GormTaskRepository) UnassignPoints(taskID, userID string) (*LedgerTotals, error) {
	var totals LedgerTotals

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var assignment models.TaskAssignee
		if err := tx.Where("task_id = ? AND user_id = ?", taskID, userID).
			First(&assignment).Error; err != nil {
			return err
		}

		if err := tx.Where("task_id = ? AND user_id = ?", taskID, userID).
			Delete(&models.TaskAssignee{}).Error; err != nil {
			return err
		}

		sum := tx.Model(&models.TaskAssignee{}).
			Select("COALESCE(SUM(points), 0)").
			Where("task_id = ?", taskID)
		if err := tx.Model(&models.Task{}).
			Where("id = ?", taskID).
			Update("puntos_asign", sum).Error; err != nil {
			return err
		}

		var task models.Task
		if err := tx.Select("puntos_asign", "puntos_total").
			First(&task, "id = ?", taskID).Error; err != nil {
			return err
		}
		totals = LedgerTotals{PuntosAsign: task.PuntosAsign, PuntosTotal: task.PuntosTotal}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &totals, nil
}

// FindAssignment finds a specific assignment row
func (r *GormTaskRepository) FindAssignment(taskID, userID string) (*models.TaskAssignee, error) {
	var assignment models.TaskAssignee
	if err := r.db.Where("task_id = ? AND user_id = ?", taskID, userID).
		First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}
