package missioncontrol

// Wire types of the CI server endpoints. Only the fields the panels use
// are decoded; everything else in the payload is ignored.

// queuePayload is the body of {jenkins}/queue/api/json.
type queuePayload struct {
	Items []queueItemPayload `json:"items"`
}

type queueItemPayload struct {
	Task struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"task"`
	InQueueSince int64 `json:"inQueueSince"`
}

// computerPayload is the body of {jenkins}/computer/api/json.
type computerPayload struct {
	Computer []nodePayload `json:"computer"`
}

type nodePayload struct {
	DisplayName  string `json:"displayName"`
	Offline      bool   `json:"offline"`
	NumExecutors int    `json:"numExecutors"`
}

// buildHistoryPayload is the build history part of {view}/api/json.
type buildHistoryPayload struct {
	Builds []buildPayload `json:"builds"`
}

type buildPayload struct {
	JobName   string `json:"jobName"`
	BuildName string `json:"buildName"`
	Number    int    `json:"number"`
	BuildURL  string `json:"buildUrl"`
	StartTime int64  `json:"startTime"`
	Duration  int64  `json:"duration"`
	Result    string `json:"result"`
}

// jobStatusesPayload is the job status part of {view}/api/json.
type jobStatusesPayload struct {
	AllJobsStatuses []jobStatusPayload `json:"allJobsStatuses"`
}

type jobStatusPayload struct {
	JobName string `json:"jobName"`
	JobURL  string `json:"jobUrl"`
	Status  string `json:"status"`
}
