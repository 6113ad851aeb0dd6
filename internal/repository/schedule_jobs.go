package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/league-scheduler/backend/internal/domain"
)

func (r *Repository) CreateScheduleJob(job *domain.ScheduleJob) error {
	query := `
		INSERT INTO schedule_jobs (
			league_id,
			algorithm,
			max_evaluations,
			initial_temperature,
			n_max_runners,
			population_size,
			status
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{
		job.LeagueID,
		job.Algorithm,
		job.MaxEvaluations,
		job.InitialTemperature,
		job.NMaxRunners,
		job.PopulationSize,
		job.Status,
	}
	dst := []any{&job.ID, &job.CreatedAt, &job.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetScheduleJobByID(id int64) (*domain.ScheduleJob, error) {
	query := `
		SELECT
			league_id,
			algorithm,
			max_evaluations,
			initial_temperature,
			n_max_runners,
			population_size,
			status,
			error_message,
			created_at,
			version
		FROM schedule_jobs
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	job := &domain.ScheduleJob{
		ID: id,
	}

	dst := []any{
		&job.LeagueID,
		&job.Algorithm,
		&job.MaxEvaluations,
		&job.InitialTemperature,
		&job.NMaxRunners,
		&job.PopulationSize,
		&job.Status,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return job, nil
}

func (r *Repository) GetScheduleJobsByLeagueID(leagueID int64) ([]*domain.ScheduleJob, error) {
	query := `
		SELECT
			id,
			algorithm,
			max_evaluations,
			initial_temperature,
			n_max_runners,
			population_size,
			status,
			error_message,
			created_at,
			version
		FROM schedule_jobs
		WHERE league_id = $1
		ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []*domain.ScheduleJob{}
	for rows.Next() {
		job := domain.ScheduleJob{
			LeagueID: leagueID,
		}

		dst := []any{
			&job.ID,
			&job.Algorithm,
			&job.MaxEvaluations,
			&job.InitialTemperature,
			&job.NMaxRunners,
			&job.PopulationSize,
			&job.Status,
			&job.ErrorMessage,
			&job.CreatedAt,
			&job.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		jobs = append(jobs, &job)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}

// UpdateScheduleJobStatus 更新任务状态和错误信息
func (r *Repository) UpdateScheduleJobStatus(job *domain.ScheduleJob) error {
	query := `
		UPDATE schedule_jobs
		SET
			status = $1,
			error_message = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{job.Status, job.ErrorMessage, job.ID, job.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&job.Version); err != nil {
		return err
	}

	return nil
}
