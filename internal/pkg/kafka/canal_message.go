package kafka

import "fmt"

// CanalMessage 定义了 Canal 推送到 Kafka 的 JSON 数据结构
type CanalMessage struct {
	ID       int64    `json:"id"`
	Database string   `json:"database"`
	Table    string   `json:"table"`
	PKNames  []string `json:"pkNames"`
	IsDDL    bool     `json:"isDdl"`
	Type     string   `json:"type"`
	ES       int64    `json:"es"`
	TS       int64    `json:"ts"`

	// Data 存储变更后的数据
	Data []map[string]interface{} `json:"data"`

	// Old 只包含 UPDATE 中发生变化的列
	Old []map[string]interface{} `json:"old"`
}

const (
	CanalInsert = "INSERT"
	CanalUpdate = "UPDATE"
	CanalDelete = "DELETE"
)

// OldRow 第 i 行变更前的列，没有时返回 nil
func (m *CanalMessage) OldRow(i int) map[string]interface{} {
	if i < 0 || i >= len(m.Old) {
		return nil
	}
	return m.Old[i]
}

// columnString canal 的列值均为字符串，NULL 为 nil
func columnString(row map[string]interface{}, column string) string {
	v, ok := row[column]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
