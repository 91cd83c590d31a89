package domain

type CreateStatus string

const (
	CreateStatusCreated           CreateStatus = "created"
	CreateStatusConfirmedExisting CreateStatus = "confirmed_existing"
)
