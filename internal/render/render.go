// Package render 把文档快照经模板投影后渲染为独立的 A4 HTML 页面，
// 供导出 Worker 打印为 PDF。渲染是纯函数：同一输入永远得到同一页面。
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"cvStudio/internal/document"
	"cvStudio/internal/projection"
)

// ActiveResume/ActiveCoverLetter 标记当前导出的文档，纯 UI 模式开关。
const (
	ActiveResume      = "resume"
	ActiveCoverLetter = "coverLetter"
)

// Input 汇集渲染一页所需的全部内容。
type Input struct {
	Snapshot       document.Snapshot
	CoverLetter    document.CoverLetter
	ActiveDocument string
	TemplateID     string
	// PhotoURL 是照片对象的预签名地址，由调用方解析；为空则不渲染照片。
	PhotoURL string
	Now      time.Time
}

type entryView struct {
	Heading     string
	Sub         string
	Dates       string
	Description string
}

type sectionView struct {
	Title     string
	Kind      string // entries | labels | paragraph
	Entries   []entryView
	Labels    []string
	Paragraph string
}

type regionView struct {
	Class    string
	Sections []sectionView
}

type pageView struct {
	IsCoverLetter bool
	FullName      string
	Role          string
	Email         string
	Phone         string
	Location      string
	LinkedIn      string
	PhotoURL      string
	Summary       string
	Date          string
	Letter        document.CoverLetter
	Regions       []regionView
}

var pageTemplate = template.Must(template.New("page").Parse(pageTemplateString))

// Page 渲染完整的 HTML 页面。未知模板标识按契约回落到默认模板。
func Page(in Input) (string, error) {
	tpl := projection.Resolve(in.TemplateID)
	layout := tpl.Project(in.Snapshot)

	info := in.Snapshot.Document.PersonalInfo
	view := pageView{
		IsCoverLetter: in.ActiveDocument == ActiveCoverLetter,
		FullName:      info.FullName,
		Role:          info.Role,
		Email:         info.Email,
		Phone:         info.Phone,
		Location:      info.Location,
		LinkedIn:      info.LinkedIn,
		PhotoURL:      in.PhotoURL,
		Summary:       in.Snapshot.Document.Summary,
		Date:          in.Now.Format("January 2, 2006"),
		Letter:        in.CoverLetter,
	}

	for _, region := range layout.Regions {
		rv := regionView{Class: region.Name}
		for _, sec := range region.Sections {
			rv.Sections = append(rv.Sections, sectionToView(sec))
		}
		view.Regions = append(view.Regions, rv)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return buf.String(), nil
}

// sectionToView 按 Section 声明的类型解读 Item。
// 字段兜底（position||degree 等）容忍类型变更后残留的旧形态。
func sectionToView(sec document.Section) sectionView {
	view := sectionView{Title: sec.Title}

	switch sec.Type {
	case document.TypeExperience, document.TypeEducation:
		view.Kind = "entries"
		for _, it := range sec.Items {
			view.Entries = append(view.Entries, entryView{
				Heading:     firstField(it, "position", "degree", "title"),
				Sub:         firstField(it, "company", "institution"),
				Dates:       dateRange(it),
				Description: it.Field("description"),
			})
		}
	case document.TypeParagraph:
		view.Kind = "paragraph"
		if len(sec.Items) > 0 {
			view.Paragraph = projection.DisplayLabel(sec.Items[0])
		}
	default:
		// skills、list 以及应用自定义类型都按标签渲染。
		view.Kind = "labels"
		for _, it := range sec.Items {
			view.Labels = append(view.Labels, projection.DisplayLabel(it))
		}
	}
	return view
}

func firstField(it document.Item, names ...string) string {
	if it.IsPrimitive() {
		return it.Text()
	}
	for _, name := range names {
		if v := it.Field(name); v != "" {
			return v
		}
	}
	return ""
}

func dateRange(it document.Item) string {
	start, end := it.Field("startDate"), it.Field("endDate")
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start
	case end != "":
		return end
	}
	return it.Field("year")
}
