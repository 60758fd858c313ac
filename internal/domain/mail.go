package domain

const (
	MailTypeAssignment   = "assignment"
	MailTypeUnassignment = "unassignment"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type AssignmentMailData struct {
	DoctorName string `json:"doctorName"`
	Day        string `json:"day"`
	Date       string `json:"date"`
	ShiftName  string `json:"shiftName"`
	RoomName   string `json:"roomName"`
}
