package dto

// CreateTaskRequest is the JSON body for POST /create_task/.
type CreateTaskRequest struct {
	Task     *string `json:"task" binding:"required"`
	Deadline *string `json:"deadline" binding:"required"`
	User     *string `json:"user" binding:"required"`
}

// TasksResponse lists a user's formatted task entries.
type TasksResponse struct {
	Tasks []string `json:"tasks"`
}
