package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/league-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/league-scheduler/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	jobChannel  *amqp.Channel
	redisClient *redis.Client

	// 管理员密码只在配置中保存明文，启动时算好哈希避免每次登录都重复计算
	adminPasswordHash []byte

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, jobCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	adminPasswordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		jobChannel:  jobCh,
		redisClient: rdb,

		adminPasswordHash: adminPasswordHash,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/leagues", func(r chi.Router) {
			r.Post("/", h.CreateLeague)
			r.Get("/", h.GetAllLeagues)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.league)
				r.Get("/", h.GetLeague)
				r.Patch("/", h.UpdateLeague)
				r.Delete("/", h.DeleteLeague)
				r.Route("/jobs", func(r chi.Router) {
					r.Post("/", h.CreateScheduleJob)
					r.Get("/", h.GetScheduleJobs)
				})
			})
		})

		r.Route("/jobs/{jobID}", func(r chi.Router) {
			r.Use(h.scheduleJob)
			r.Get("/", h.GetScheduleJob)
			r.Route("/result", func(r chi.Router) {
				r.Get("/", h.GetScheduleResult)
				r.Get("/csv", h.DownloadScheduleCSV)
			})
		})
	})
}
