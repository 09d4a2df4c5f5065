package dto

// PaymentRequest describes a single payment attempt.
type PaymentRequest struct {
	OrderID string `json:"order_id"`
	Mode    string `json:"mode"`
}

// PaymentResponse reports the outcome of a payment attempt.
type PaymentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID string `json:"order_id"`
	Status  string `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PaymentHistoryResponse lists paid records of an order.
type PaymentHistoryResponse struct {
	OrderID      string                 `json:"order_id"`
	PaymentCount int                    `json:"payment_count"`
	Payments     []StatusChangeResponse `json:"payments"`
}

// ConcurrentTestRequest describes a concurrent payment run. Zero attempts means default.
type ConcurrentTestRequest struct {
	OrderID  string `json:"order_id"`
	Mode     string `json:"mode"`
	Attempts int    `json:"attempts"`
}

// AttemptResponse is one launched attempt.
type AttemptResponse struct {
	Attempt int    `json:"attempt"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SummaryResponse aggregates a concurrent run.
type SummaryResponse struct {
	TotalAttempts         int  `json:"total_attempts"`
	Successful            int  `json:"successful"`
	Failed                int  `json:"failed"`
	PaymentCountInHistory int  `json:"payment_count_in_history"`
	RaceConditionDetected bool `json:"race_condition_detected"`
}

// ConcurrentTestResponse is the verdict of a concurrent run.
type ConcurrentTestResponse struct {
	Mode        string                 `json:"mode"`
	OrderID     string                 `json:"order_id"`
	Results     []AttemptResponse      `json:"results"`
	Summary     SummaryResponse        `json:"summary"`
	FinalStatus string                 `json:"final_status"`
	History     []StatusChangeResponse `json:"history"`
	Explanation string                 `json:"explanation"`
}
