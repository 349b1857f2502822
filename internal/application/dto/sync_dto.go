package dto

// SyncRequest parámetros para disparar una sincronización.
type SyncRequest struct {
	Start    string `json:"start" validate:"required,datetime=2006-01-02"`
	End      string `json:"end" validate:"required,datetime=2006-01-02"`
	Strategy string `json:"strategy" validate:"omitempty,oneof=regular direct chunked"`
	Force    bool   `json:"force"`
}

// SyncAcceptedResponse confirma que la sincronización quedó corriendo.
type SyncAcceptedResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

// SyncStatusResponse snapshot del estado de la sincronización en curso o la última terminada.
type SyncStatusResponse struct {
	SessionID   string `json:"session_id,omitempty"`
	State       string `json:"state"` // idle|fetching|merging|done|failed
	Progress    int    `json:"progress"`
	Message     string `json:"message,omitempty"`
	Error       string `json:"error,omitempty"`
	StartedAt   string `json:"started_at,omitempty"`
	FinishedAt  string `json:"finished_at,omitempty"`
	FailedPages int    `json:"failed_pages,omitempty"`
}

// OverheadCostDTO una regla de costo indirecto.
type OverheadCostDTO struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Type  string `json:"type" validate:"required,oneof=fixed per_order per_item percentage"`
	Value string `json:"value" validate:"required"`
}

// ExpenseDTO un gasto operativo, puntual o recurrente.
type ExpenseDTO struct {
	ID       string `json:"id,omitempty"`
	Category string `json:"category" validate:"required,min=1,max=200"`
	Amount   string `json:"amount" validate:"required"`
	Period   string `json:"period" validate:"omitempty,oneof=daily weekly monthly yearly"`
	Date     string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}
