package handler

type ContextKey string

var (
	SubCtxKey      ContextKey = "sub"
	LeagueCtx      ContextKey = "league"
	ScheduleJobCtx ContextKey = "scheduleJob"
)
