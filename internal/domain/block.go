package domain

type Block struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (b Block) GetID() int64         { return b.ID }
func (b Block) DisplayName() string { return b.Name }
