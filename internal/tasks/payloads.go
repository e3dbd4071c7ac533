package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"cvStudio/internal/document"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypePDFExport = "pdf:export"
)

// PDFExportPayload 携带导出一页 PDF 所需的全部内容。
// 会话状态只存在于 API 进程内存中，Worker 无法回查，
// 因此快照与求职信整体随任务入队。
type PDFExportPayload struct {
	SessionID      string                `json:"session_id"`
	TemplateID     string                `json:"template_id"`
	ActiveDocument string                `json:"active_document"`
	Filename       string                `json:"filename"`
	CorrelationID  string                `json:"correlation_id"`
	Snapshot       document.Snapshot     `json:"snapshot"`
	CoverLetter    document.CoverLetter  `json:"cover_letter"`
}

// NewPDFExportTask 构造一个新的 PDF 导出任务。
func NewPDFExportTask(payload PDFExportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePDFExport, data), nil
}
