package insights

const UnknownValue = "Unknown"

// Overview holds the request tallies. TotalRequests is the sum of the three statuses.
type Overview struct {
	TotalRequests    int64 `json:"totalRequests"`
	PendingRequests  int64 `json:"pendingRequests"`
	AcceptedRequests int64 `json:"acceptedRequests"`
	RejectedRequests int64 `json:"rejectedRequests"`
}

type ProjectStat struct {
	ProjectID      int64   `json:"projectId"`
	ProjectName    string  `json:"projectName"`
	Department     string  `json:"department"`
	Domain         string  `json:"domain"`
	Total          int64   `json:"total"`
	Accepted       int64   `json:"accepted"`
	Rejected       int64   `json:"rejected"`
	Pending        int64   `json:"pending"`
	AcceptanceRate float64 `json:"acceptanceRate"`
}

type Collaborator struct {
	UserID        int64  `json:"userId"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Department    string `json:"department"`
	RegNo         int64  `json:"regNo"`
	AcceptedCount int64  `json:"acceptedCount"`
}

// DayBucket counts the requests made on one UTC calendar day.
type DayBucket struct {
	Date     string `bun:"day" json:"date"`
	Total    int64  `bun:"total" json:"total"`
	Accepted int64  `bun:"accepted" json:"accepted"`
	Rejected int64  `bun:"rejected" json:"rejected"`
	Pending  int64  `bun:"pending" json:"pending"`
}

type Report struct {
	Overview               Overview       `json:"overview"`
	ProjectStats           []ProjectStat  `json:"projectStats"`
	TopCollaborators       []Collaborator `json:"topCollaborators"`
	DayWiseData            []DayBucket    `json:"dayWiseData"`
	HighestAcceptanceRatio []ProjectStat  `json:"highestAcceptanceRatio"`
}

type statusCount struct {
	Status string `bun:"status"`
	Count  int64  `bun:"count"`
}

type projectRow struct {
	ProjectID    int64   `bun:"project_id"`
	ProjectRefID *int64  `bun:"project_ref_id"`
	AdminName    *string `bun:"admin_name"`
	Department   *string `bun:"department"`
	Domain       *string `bun:"domain"`
	Total        int64   `bun:"total"`
	Accepted     int64   `bun:"accepted"`
	Rejected     int64   `bun:"rejected"`
	Pending      int64   `bun:"pending"`
}

type collaboratorRow struct {
	UserID        int64   `bun:"user_id"`
	UserRefID     *int64  `bun:"user_ref_id"`
	Name          *string `bun:"name"`
	Email         *string `bun:"email"`
	Department    *string `bun:"department"`
	RegNo         *int64  `bun:"reg_no"`
	AcceptedCount int64   `bun:"accepted_count"`
}
