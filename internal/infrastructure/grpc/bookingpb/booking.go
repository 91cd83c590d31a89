package bookingpb

type Booking struct {
	Id             int64  `json:"id"`
	TenantId       string `json:"tenant_id"`
	StartTimeUtc   string `json:"start_time_utc"`
	IdempotencyKey string `json:"idempotency_key"`
	CreatedAt      string `json:"created_at"`
}

type CreateOrConfirmRequest struct {
	TenantId       string `json:"tenant_id"`
	StartTimeUtc   string `json:"start_time_utc"`
	IdempotencyKey string `json:"idempotency_key"`
	TraceId        string `json:"trace_id,omitempty"`
}

type CreateOrConfirmResponse struct {
	Booking *Booking `json:"booking"`
	// Status is "created" or "confirmed_existing".
	Status string `json:"status"`
}

type ListByTenantRequest struct {
	TenantId string `json:"tenant_id"`
	TraceId  string `json:"trace_id,omitempty"`
}

type ListByTenantResponse struct {
	Bookings []*Booking `json:"bookings"`
}
