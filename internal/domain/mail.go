package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ScheduleDoneMailData struct {
	LeagueName      string `json:"leagueName"`
	JobID           int64  `json:"jobID"`
	Algorithm       string `json:"algorithm"`
	TotalViolations int    `json:"totalViolations"`
}

type ScheduleFailedMailData struct {
	LeagueName   string `json:"leagueName"`
	JobID        int64  `json:"jobID"`
	ErrorMessage string `json:"errorMessage"`
}
