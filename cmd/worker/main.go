package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/league-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/league-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/league-scheduler/backend/internal/repository"
	"github.com/sysu-ecnc-dev/league-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/league-scheduler/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type worker struct {
	cfg         *config.Config
	repo        *repository.Repository
	mailChannel *amqp.Channel
	redisClient *redis.Client
	logger      *slog.Logger
}

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		return
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	connectCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(connectCtx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	/**********************************************
	 * 创建 repository
	 **********************************************/
	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * 连接 rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 rabbitmq", "error", err)
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法建立通道", "error", err)
		return
	}
	defer ch.Close()

	// 任务队列由本进程消费，邮件队列由本进程投递
	q, err := ch.QueueDeclare(
		"schedule_jobs",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("无法声明队列", "error", err)
		return
	}

	_, err = ch.QueueDeclare(
		"email_queue",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("无法声明队列", "error", err)
		return
	}

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	/**********************************************
	 * 消费任务消息
	 **********************************************/
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("无法消费消息", "error", err)
		os.Exit(1)
	}

	w := &worker{
		cfg:         cfg,
		repo:        repo,
		mailChannel: ch,
		redisClient: rdb,
		logger:      logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				logger.Info("收到任务消息", slog.String("message", string(msg.Body)))

				jobMessage := domain.JobMessage{}
				if err := json.Unmarshal(msg.Body, &jobMessage); err != nil {
					logger.Error("任务消息反序列化失败", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				if err := w.processJob(jobMessage.JobID); err != nil {
					logger.Error("任务处理失败", slog.Int64("job_id", jobMessage.JobID), slog.String("error", err.Error()))
					// 任务的失败状态已经落库，消息本身不再重新入队
					_ = msg.Nack(false, false)
					continue
				}

				_ = msg.Ack(false)
			}
		}
	}()

	logger.Info("等待任务...（按 CTRL+C 退出）")
	<-sigChan

	slog.Info("正在关闭 worker...")
	cancel()
	wg.Wait()
	slog.Info("worker 已成功关闭")
}

// processJob 执行一个赛程生成任务的完整生命周期：
// 加载任务和联赛、标记运行中、运行所选算法、校验并持久化结果、
// 更新进度快照，最后在联赛配置了联系邮箱时投递通知邮件
func (w *worker) processJob(jobID int64) error {
	job, err := w.repo.GetScheduleJobByID(jobID)
	if err != nil {
		return fmt.Errorf("无法加载任务: %w", err)
	}

	league, err := w.repo.GetLeagueByID(job.LeagueID)
	if err != nil {
		return fmt.Errorf("无法加载联赛: %w", err)
	}

	if err := utils.ValidateLeagueTeams(league); err != nil {
		w.failJob(job, league, err.Error())
		return err
	}

	job.Status = domain.JobStatusRunning
	job.ErrorMessage = ""
	if err := w.repo.UpdateScheduleJobStatus(job); err != nil {
		return fmt.Errorf("无法更新任务状态: %w", err)
	}

	start := time.Now()
	w.writeProgress(job.ID, domain.JobProgress{
		Status: domain.JobStatusRunning,
	})

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	result, err := runAlgorithm(rng, job, league.NTeams())
	if err != nil {
		w.failJob(job, league, err.Error())
		return err
	}

	// 持久化前再做一次结构校验，算法实现有缺陷时宁可让任务失败
	if err := utils.ValidateScheduleResult(result.Rounds, result.HomeTeams, league.NTeams()); err != nil {
		w.failJob(job, league, err.Error())
		return err
	}

	if err := w.repo.InsertScheduleResult(result, job); err != nil {
		w.failJob(job, league, "结果写入失败")
		return fmt.Errorf("无法写入结果: %w", err)
	}

	w.writeProgress(job.ID, domain.JobProgress{
		Status:        domain.JobStatusCompleted,
		Evaluations:   result.Evaluations,
		BestSum:       result.TotalViolations(),
		ElapsedMillis: time.Since(start).Milliseconds(),
	})

	w.logger.Info("任务完成",
		slog.Int64("job_id", job.ID),
		slog.String("algorithm", string(job.Algorithm)),
		slog.Int("evaluations", result.Evaluations),
		slog.Int("violations", result.TotalViolations()),
		slog.Duration("elapsed", time.Since(start)),
	)

	if league.ContactEmail != "" {
		w.publishMail(domain.MailMessage{
			Type: "schedule_done",
			To:   league.ContactEmail,
			Data: domain.ScheduleDoneMailData{
				LeagueName:      league.Name,
				JobID:           job.ID,
				Algorithm:       string(job.Algorithm),
				TotalViolations: result.TotalViolations(),
			},
		})
	}

	return nil
}

// runAlgorithm 按任务指定的算法运行并把算法输出整理为待持久化的结果
func runAlgorithm(rng *rand.Rand, job *domain.ScheduleJob, nTeams int) (*domain.ScheduleResult, error) {
	switch job.Algorithm {
	case domain.AlgorithmSimulatedAnnealing:
		schedule, homeTeams, err := scheduler.NewSchedule(rng, nTeams)
		if err != nil {
			return nil, err
		}

		res, err := scheduler.SimulatedAnnealing(rng, schedule, homeTeams, job.MaxEvaluations, job.InitialTemperature)
		if err != nil {
			return nil, err
		}

		return &domain.ScheduleResult{
			JobID:                job.ID,
			Rounds:               res.BestSchedule,
			HomeTeams:            res.BestHomeTeams,
			MaxStreakViolations:  res.BestViolations.MaxStreak,
			NoRepeatViolations:   res.BestViolations.NoRepeat,
			RoundRobinViolations: res.BestViolations.RoundRobin,
			Proposed:             res.Proposed[:],
			Accepted:             res.Accepted[:],
			Evaluations:          res.Evaluations,
			FinalTemperature:     res.Temperatures[len(res.Temperatures)-1],
		}, nil
	case domain.AlgorithmPlantPropagation:
		res, err := scheduler.PlantPropagation(rng, scheduler.PropagationParams{
			NTeams:         nTeams,
			MaxEvaluations: job.MaxEvaluations,
			NMaxRunners:    job.NMaxRunners,
			PopulationSize: job.PopulationSize,
		})
		if err != nil {
			return nil, err
		}

		return &domain.ScheduleResult{
			JobID:                job.ID,
			Rounds:               res.BestSchedule,
			HomeTeams:            res.BestHomeTeams,
			MaxStreakViolations:  res.BestViolations.MaxStreak,
			NoRepeatViolations:   res.BestViolations.NoRepeat,
			RoundRobinViolations: res.BestViolations.RoundRobin,
			Proposed:             []int{},
			Accepted:             res.Accepted[:],
			Evaluations:          res.Evaluations,
		}, nil
	default:
		return nil, fmt.Errorf("不支持的算法: %s", job.Algorithm)
	}
}

// failJob 把任务标记为失败并尽力通知联系人，状态更新失败时只记录日志
func (w *worker) failJob(job *domain.ScheduleJob, league *domain.League, reason string) {
	job.Status = domain.JobStatusFailed
	job.ErrorMessage = reason
	if err := w.repo.UpdateScheduleJobStatus(job); err != nil {
		w.logger.Error("无法更新任务状态", slog.Int64("job_id", job.ID), slog.String("error", err.Error()))
	}

	w.writeProgress(job.ID, domain.JobProgress{
		Status: domain.JobStatusFailed,
	})

	if league.ContactEmail != "" {
		w.publishMail(domain.MailMessage{
			Type: "schedule_failed",
			To:   league.ContactEmail,
			Data: domain.ScheduleFailedMailData{
				LeagueName:   league.Name,
				JobID:        job.ID,
				ErrorMessage: reason,
			},
		})
	}
}

// writeProgress 把进度快照写入 redis，写入失败只记录日志不影响任务本身
func (w *worker) writeProgress(jobID int64, progress domain.JobProgress) {
	data, err := json.Marshal(progress)
	if err != nil {
		w.logger.Error("进度快照序列化失败", slog.Int64("job_id", jobID), slog.String("error", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(w.cfg.Redis.OperationTimeout)*time.Second)
	defer cancel()

	key := fmt.Sprintf("job_progress_%d", jobID)
	expiration := time.Duration(w.cfg.Redis.ProgressExpiration) * time.Second
	if err := w.redisClient.Set(ctx, key, data, expiration).Err(); err != nil {
		w.logger.Error("进度快照写入失败", slog.Int64("job_id", jobID), slog.String("error", err.Error()))
	}
}

// publishMail 把邮件消息投递到邮件队列，投递失败只记录日志
func (w *worker) publishMail(mailMessage domain.MailMessage) {
	data, err := json.Marshal(mailMessage)
	if err != nil {
		w.logger.Error("邮件信息序列化失败", slog.String("error", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(w.cfg.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := w.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        data,
		},
	); err != nil {
		w.logger.Error("邮件消息投递失败", slog.String("error", err.Error()))
	}
}
