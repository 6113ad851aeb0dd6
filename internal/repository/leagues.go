package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sysu-ecnc-dev/league-scheduler/backend/internal/domain"
)

func (r *Repository) CreateLeague(league *domain.League) error {
	query := `
		INSERT INTO leagues (name, code, description, team_names, contact_email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	teamNames, err := json.Marshal(league.TeamNames)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{league.Name, league.Code, league.Description, teamNames, league.ContactEmail}
	dst := []any{&league.ID, &league.CreatedAt, &league.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllLeagues() ([]*domain.League, error) {
	query := `
		SELECT id, name, code, description, team_names, contact_email, created_at, version
		FROM leagues
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leagues := []*domain.League{}
	for rows.Next() {
		var league domain.League
		var teamNames []byte

		dst := []any{
			&league.ID,
			&league.Name,
			&league.Code,
			&league.Description,
			&teamNames,
			&league.ContactEmail,
			&league.CreatedAt,
			&league.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(teamNames, &league.TeamNames); err != nil {
			return nil, err
		}
		leagues = append(leagues, &league)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return leagues, nil
}

func (r *Repository) GetLeagueByID(id int64) (*domain.League, error) {
	query := `
		SELECT name, code, description, team_names, contact_email, created_at, version
		FROM leagues
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	league := &domain.League{
		ID: id,
	}
	var teamNames []byte

	dst := []any{
		&league.Name,
		&league.Code,
		&league.Description,
		&teamNames,
		&league.ContactEmail,
		&league.CreatedAt,
		&league.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(teamNames, &league.TeamNames); err != nil {
		return nil, err
	}

	return league, nil
}

func (r *Repository) UpdateLeague(league *domain.League) error {
	// 不允许更新球队列表，否则已有任务的结果会和球队编号对不上
	query := `
		UPDATE leagues
		SET
			name = $1,
			code = $2,
			description = $3,
			contact_email = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{
		league.Name,
		league.Code,
		league.Description,
		league.ContactEmail,
		league.ID,
		league.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&league.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteLeague(id int64) error {
	query := `
		DELETE FROM leagues WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
