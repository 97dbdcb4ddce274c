// Package report 将签到名单渲染为 Excel (.xlsx)。
// 服务端导出接口与命令行客户端的本地导出共用同一套版式。
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// SheetName 工作表名称
const SheetName = "Attendance"

// ContentType xlsx 的 MIME 类型
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Row 名单中的一行
type Row struct {
	ParticipantName string
	CheckInTime     time.Time
}

// Sheet 导出内容
type Sheet struct {
	Title    string
	Rows     []Row
	Location *time.Location
}

// Write 生成 xlsx 并写入 w
//
// 版式：
//   - 第 1 行：标题（合并 A1:C1）
//   - 第 2 行：表头 # / Student / Time
//   - 第 3 行起：名单，顺序与 Rows 一致
func Write(w io.Writer, s Sheet) error {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("创建工作表失败: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(SheetName, "A", "A", 6)
	f.SetColWidth(SheetName, "B", "B", 32)
	f.SetColWidth(SheetName, "C", "C", 22)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D81B60"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(SheetName, "A1", s.Title)
	f.MergeCell(SheetName, "A1", "C1")
	f.SetCellStyle(SheetName, "A1", "C1", headerStyle)

	f.SetCellValue(SheetName, "A2", "#")
	f.SetCellValue(SheetName, "B2", "Student")
	f.SetCellValue(SheetName, "C2", "Time")
	f.SetCellStyle(SheetName, "A2", "C2", headerStyle)

	for i, r := range s.Rows {
		row := i + 3
		f.SetCellValue(SheetName, cell("A", row), i+1)
		f.SetCellValue(SheetName, cell("B", row), r.ParticipantName)
		f.SetCellValue(SheetName, cell("C", row), r.CheckInTime.In(loc).Format("2006-01-02 15:04:05"))
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("写入 Excel 失败: %w", err)
	}
	return nil
}

// Filename 建议的下载文件名
func Filename(name string, at time.Time) string {
	return fmt.Sprintf("Report_%s_%s.xlsx", sanitize(name), at.Format("2006-01-02"))
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func sanitize(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "event"
	}
	return string(out)
}
