package domain

type Doctor struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"` // 可选，用于发送排班通知
}

func (d Doctor) GetID() int64         { return d.ID }
func (d Doctor) DisplayName() string { return d.Name }

// DefaultDoctors 在 doctors 数据缺失或损坏时使用
func DefaultDoctors() []Doctor {
	return []Doctor{
		{ID: 1, Name: "Dr. Sulaiman"},
		{ID: 2, Name: "Dr. John"},
		{ID: 3, Name: "Dr. Sarah"},
	}
}
