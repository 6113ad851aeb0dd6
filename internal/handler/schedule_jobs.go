package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/league-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/league-scheduler/backend/internal/export"
)

func (h *Handler) CreateScheduleJob(w http.ResponseWriter, r *http.Request) {
	league := r.Context().Value(LeagueCtx).(*domain.League)

	var req struct {
		Algorithm          string  `json:"algorithm" validate:"required,oneof=simulated_annealing plant_propagation"`
		MaxEvaluations     int     `json:"maxEvaluations" validate:"required,gte=1"`
		InitialTemperature float64 `json:"initialTemperature"`
		NMaxRunners        int     `json:"nMaxRunners"`
		PopulationSize     int     `json:"populationSize"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.MaxEvaluations > h.config.Scheduler.MaxEvaluationsLimit {
		h.errorResponse(w, r, "评估次数超过上限")
		return
	}

	// 两种算法的参数互不相干，只检查所选算法用到的那组
	switch domain.Algorithm(req.Algorithm) {
	case domain.AlgorithmSimulatedAnnealing:
		if req.InitialTemperature <= 0 {
			h.errorResponse(w, r, "初始温度必须为正数")
			return
		}
	case domain.AlgorithmPlantPropagation:
		if req.NMaxRunners < 1 || req.NMaxRunners > h.config.Scheduler.MaxRunnersLimit {
			h.errorResponse(w, r, "最大匍匐茎数量无效")
			return
		}
		if req.PopulationSize < 1 || req.PopulationSize > h.config.Scheduler.MaxPopulationSize {
			h.errorResponse(w, r, "种群规模无效")
			return
		}
	}

	job := &domain.ScheduleJob{
		LeagueID:           league.ID,
		Algorithm:          domain.Algorithm(req.Algorithm),
		MaxEvaluations:     req.MaxEvaluations,
		InitialTemperature: req.InitialTemperature,
		NMaxRunners:        req.NMaxRunners,
		PopulationSize:     req.PopulationSize,
		Status:             domain.JobStatusPending,
	}

	if err := h.repository.CreateScheduleJob(job); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 任务写库成功后才投递消息，worker 侧按 ID 重新加载任务
	body, err := json.Marshal(domain.JobMessage{JobID: job.ID})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.jobChannel.PublishWithContext(
		ctx,
		"",
		"schedule_jobs",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		// 消息投递失败时把任务标记为失败，避免任务永远停留在等待中
		job.Status = domain.JobStatusFailed
		job.ErrorMessage = "任务消息投递失败"
		_ = h.repository.UpdateScheduleJobStatus(job)
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建任务成功", job)
}

func (h *Handler) GetScheduleJobs(w http.ResponseWriter, r *http.Request) {
	league := r.Context().Value(LeagueCtx).(*domain.League)

	jobs, err := h.repository.GetScheduleJobsByLeagueID(league.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取任务列表成功", jobs)
}

func (h *Handler) GetScheduleJob(w http.ResponseWriter, r *http.Request) {
	job := r.Context().Value(ScheduleJobCtx).(*domain.ScheduleJob)

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	// 进度快照是尽力而为的，Redis 中没有也不算错误
	var progress *domain.JobProgress
	raw, err := h.redisClient.Get(ctx, fmt.Sprintf("job_progress_%d", job.ID)).Result()
	switch {
	case err == nil:
		progress = &domain.JobProgress{}
		if err := json.Unmarshal([]byte(raw), progress); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	case errors.Is(err, redis.Nil):
	default:
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取任务成功", map[string]any{
		"job":      job,
		"progress": progress,
	})
}

func (h *Handler) GetScheduleResult(w http.ResponseWriter, r *http.Request) {
	job := r.Context().Value(ScheduleJobCtx).(*domain.ScheduleJob)

	result, err := h.repository.GetScheduleResultByJobID(job.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "任务尚未产生结果")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取结果成功", result)
}

func (h *Handler) DownloadScheduleCSV(w http.ResponseWriter, r *http.Request) {
	job := r.Context().Value(ScheduleJobCtx).(*domain.ScheduleJob)

	result, err := h.repository.GetScheduleResultByJobID(job.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "任务尚未产生结果")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	league, err := h.repository.GetLeagueByID(job.LeagueID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-job-%d.csv", league.Code, job.ID))

	if err := export.WriteFixturesCSV(w, league, result.Rounds); err != nil {
		h.logInternalServerError(r, err)
	}
}
