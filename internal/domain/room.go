package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Room 中的 BlockName 只是保存时的快照，读取时应以 Block 注册表中的名称为准
type Room struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	BlockID   int64  `json:"blockId"`
	BlockName string `json:"blockName"`
}

func (r Room) GetID() int64         { return r.ID }
func (r Room) DisplayName() string { return r.Name }

// UnmarshalJSON 兼容旧数据中以字符串形式保存的 blockId
func (r *Room) UnmarshalJSON(data []byte) error {
	type room Room
	aux := struct {
		*room
		BlockID LooseID `json:"blockId"`
	}{room: (*room)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("房间数据无效: %w", err)
	}
	r.BlockID = int64(aux.BlockID)

	return nil
}

// LooseID 接受数字、数字字符串、空字符串和 null
type LooseID int64

func (id *LooseID) UnmarshalJSON(data []byte) error {
	v, err := parseLooseID(data)
	if err != nil {
		return err
	}
	*id = LooseID(v)
	return nil
}

func parseLooseID(raw []byte) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		if s == "" {
			return 0, nil
		}
		return strconv.ParseInt(s, 10, 64)
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	if id, err := n.Int64(); err == nil {
		return id, nil
	}
	// Date.now() 生成的旧 id 有可能被序列化成浮点数
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}
