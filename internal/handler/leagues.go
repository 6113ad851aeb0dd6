package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/league-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/league-scheduler/backend/internal/utils"
)

func (h *Handler) GetAllLeagues(w http.ResponseWriter, r *http.Request) {
	leagues, err := h.repository.GetAllLeagues()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有联赛成功", leagues)
}

func (h *Handler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string   `json:"name" validate:"required"`
		Description  string   `json:"description"`
		TeamNames    []string `json:"teamNames" validate:"required"`
		ContactEmail string   `json:"contactEmail" validate:"omitempty,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if len(req.TeamNames) > h.config.Scheduler.MaxTeams {
		h.errorResponse(w, r, "球队数量超过上限")
		return
	}

	league := &domain.League{
		Name:         req.Name,
		Code:         utils.GenerateCodeFromName(req.Name),
		Description:  req.Description,
		TeamNames:    req.TeamNames,
		ContactEmail: req.ContactEmail,
	}

	if err := utils.ValidateLeagueTeams(league); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateLeague(league); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "leagues_name_key":
				h.errorResponse(w, r, "联赛名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建联赛成功", league)
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	league := r.Context().Value(LeagueCtx).(*domain.League)

	h.successResponse(w, r, "获取联赛成功", league)
}

func (h *Handler) UpdateLeague(w http.ResponseWriter, r *http.Request) {
	league := r.Context().Value(LeagueCtx).(*domain.League)

	// 球队列表不允许更新，已有结果中的球队编号依赖创建时的顺序
	var req struct {
		Name         *string `json:"name"`
		Description  *string `json:"description"`
		ContactEmail *string `json:"contactEmail" validate:"omitempty,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		league.Name = *req.Name
		league.Code = utils.GenerateCodeFromName(*req.Name)
	}
	if req.Description != nil {
		league.Description = *req.Description
	}
	if req.ContactEmail != nil {
		league.ContactEmail = *req.ContactEmail
	}

	if err := h.repository.UpdateLeague(league); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "leagues_name_key":
				h.errorResponse(w, r, "联赛名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新联赛成功", league)
}

func (h *Handler) DeleteLeague(w http.ResponseWriter, r *http.Request) {
	league := r.Context().Value(LeagueCtx).(*domain.League)

	if err := h.repository.DeleteLeague(league.ID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "schedule_jobs_league_id_fkey":
				h.errorResponse(w, r, "该联赛已有赛程任务，无法删除")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除联赛成功", nil)
}
