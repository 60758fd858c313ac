package handler

type ContextKey string

var (
	RequestIDCtxKey ContextKey = "requestId"
	BlockCtx        ContextKey = "block"
	RoomCtx         ContextKey = "room"
	ShiftCtx        ContextKey = "shift"
	DoctorCtx       ContextKey = "doctor"
)
