package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sysu-ecnc-dev/league-scheduler/backend/internal/domain"
)

// InsertScheduleResult 以事务方式写入赛程结果并把任务标记为已完成。
// 任务重跑时会先删除旧结果
func (r *Repository) InsertScheduleResult(result *domain.ScheduleResult, job *domain.ScheduleJob) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	rounds, err := json.Marshal(result.Rounds)
	if err != nil {
		return err
	}
	homeTeams, err := json.Marshal(result.HomeTeams)
	if err != nil {
		return err
	}
	proposed, err := json.Marshal(result.Proposed)
	if err != nil {
		return err
	}
	accepted, err := json.Marshal(result.Accepted)
	if err != nil {
		return err
	}

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `DELETE FROM schedule_results WHERE job_id = $1`
	if _, err := tx.ExecContext(ctx, query, result.JobID); err != nil {
		return err
	}

	query = `
		INSERT INTO schedule_results (
			job_id,
			rounds,
			home_teams,
			max_streak_violations,
			no_repeat_violations,
			round_robin_violations,
			proposed,
			accepted,
			evaluations,
			final_temperature
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, version
	`

	params := []any{
		result.JobID,
		rounds,
		homeTeams,
		result.MaxStreakViolations,
		result.NoRepeatViolations,
		result.RoundRobinViolations,
		proposed,
		accepted,
		result.Evaluations,
		result.FinalTemperature,
	}
	dst := []any{&result.ID, &result.CreatedAt, &result.Version}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	query = `
		UPDATE schedule_jobs
		SET status = $1, error_message = '', version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`
	if err := tx.QueryRowContext(ctx, query, domain.JobStatusCompleted, job.ID, job.Version).Scan(&job.Version); err != nil {
		return err
	}
	job.Status = domain.JobStatusCompleted
	job.ErrorMessage = ""

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetScheduleResultByJobID(jobID int64) (*domain.ScheduleResult, error) {
	query := `
		SELECT
			id,
			rounds,
			home_teams,
			max_streak_violations,
			no_repeat_violations,
			round_robin_violations,
			proposed,
			accepted,
			evaluations,
			final_temperature,
			created_at,
			version
		FROM schedule_results
		WHERE job_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result := &domain.ScheduleResult{
		JobID: jobID,
	}
	var rounds, homeTeams, proposed, accepted []byte

	dst := []any{
		&result.ID,
		&rounds,
		&homeTeams,
		&result.MaxStreakViolations,
		&result.NoRepeatViolations,
		&result.RoundRobinViolations,
		&proposed,
		&accepted,
		&result.Evaluations,
		&result.FinalTemperature,
		&result.CreatedAt,
		&result.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, jobID).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(rounds, &result.Rounds); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(homeTeams, &result.HomeTeams); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(proposed, &result.Proposed); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(accepted, &result.Accepted); err != nil {
		return nil, err
	}

	return result, nil
}
