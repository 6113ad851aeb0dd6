package domain

import "time"

type Algorithm string

const (
	AlgorithmSimulatedAnnealing Algorithm = "simulated_annealing"
	AlgorithmPlantPropagation   Algorithm = "plant_propagation"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "等待中"
	JobStatusRunning   JobStatus = "运行中"
	JobStatusCompleted JobStatus = "已完成"
	JobStatusFailed    JobStatus = "失败"
)

// ScheduleJob 是一次赛程生成任务。模拟退火使用 InitialTemperature，
// 植物繁殖算法使用 NMaxRunners 和 PopulationSize，两组参数互不相干。
type ScheduleJob struct {
	ID                 int64     `json:"id"`
	LeagueID           int64     `json:"leagueID"`
	Algorithm          Algorithm `json:"algorithm"`
	MaxEvaluations     int       `json:"maxEvaluations"`
	InitialTemperature float64   `json:"initialTemperature"`
	NMaxRunners        int       `json:"nMaxRunners"`
	PopulationSize     int       `json:"populationSize"`
	Status             JobStatus `json:"status"`
	ErrorMessage       string    `json:"errorMessage"`
	CreatedAt          time.Time `json:"createdAt"`
	Version            int32     `json:"-"`
}

// JobMessage 是通过消息队列投递给 worker 的任务消息
type JobMessage struct {
	JobID int64 `json:"jobID"`
}

// JobProgress 是 worker 写入 Redis 的任务进度快照
type JobProgress struct {
	Status        JobStatus `json:"status"`
	Evaluations   int       `json:"evaluations"`
	BestSum       int       `json:"bestSum"`
	ElapsedMillis int64     `json:"elapsedMillis"`
}
