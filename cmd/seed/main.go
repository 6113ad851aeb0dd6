package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/league-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/league-scheduler/backend/internal/repository"
	"github.com/sysu-ecnc-dev/league-scheduler/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var leagueID int64

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机联赛, 2: 为指定联赛插入随机任务)")
	flag.IntVar(&n, "n", 0, "要插入的记录数量（缺省时使用配置中的数量）")
	flag.Int64Var(&leagueID, "league-id", 0, "随机插入任务的联赛 ID")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	if n <= 0 {
		n = cfg.Seed.LeagueCount
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的联赛数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				league := utils.GenerateRandomLeague(rng, cfg.Scheduler.MaxTeams)
				if err := repo.CreateLeague(league); err != nil {
					slog.Error("无法插入联赛", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入联赛成功", slog.Int("count", n-cnt))
		}
	case 2:
		if leagueID <= 0 {
			slog.Error("请输入合法的联赛 ID")
			return
		}
		if n <= 0 {
			slog.Error("请输入合法的任务数量")
			return
		}

		// 先确认联赛存在
		if _, err := repo.GetLeagueByID(leagueID); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				slog.Error("指定的联赛不存在", slog.Int64("league_id", leagueID))
			default:
				slog.Error("无法获取联赛", slog.String("error", err.Error()))
			}
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			job := utils.GenerateRandomScheduleJob(rng, leagueID)
			if err := repo.CreateScheduleJob(job); err != nil {
				slog.Error("无法插入任务", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入任务成功", slog.Int("count", n-cnt))
	default:
		slog.Error("指定的操作非法")
	}
}
