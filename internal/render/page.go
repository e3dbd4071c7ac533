package render

// pageTemplateString 是 PDF 渲染用的 Go HTML 模板。
// 页面尺寸为 A4 @ 96 DPI（794x1122），与打印参数保持一致。
// 水印覆盖层始终带 id="watermark-overlay"，导出流程按该 id 临时隐藏。
const pageTemplateString = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body {
            margin: 0;
            padding: 0;
            font-family: 'Helvetica Neue', Arial, sans-serif;
            font-size: 10pt;
            color: #1f2937;
        }
        .a4-page {
            position: relative;
            width: 794px;   /* A4 @ 96 DPI */
            min-height: 1122px;
            background: white;
            margin: 0;
            padding: 40px;
            box-sizing: border-box;
            overflow: hidden;
        }
        header { border-bottom: 2px solid #e5e7eb; padding-bottom: 16px; margin-bottom: 20px; }
        header h1 { margin: 0 0 4px 0; font-size: 24pt; text-transform: uppercase; letter-spacing: 1px; }
        header .role { color: #4f46e5; font-size: 12pt; margin-bottom: 8px; }
        header .contact span { margin-right: 14px; color: #6b7280; font-size: 9pt; }
        header img.photo { float: right; width: 96px; height: 96px; object-fit: cover; border-radius: 6px; }
        .columns { display: flex; gap: 24px; }
        .region { flex: 1; min-width: 0; }
        .region.main { flex: 2; }
        .region.sidebar { flex: 1; background: #f9fafb; padding: 12px; border-radius: 6px; }
        .section { margin-bottom: 18px; }
        .section h3 {
            font-size: 11pt; text-transform: uppercase; letter-spacing: 1px;
            border-bottom: 1px solid #e5e7eb; padding-bottom: 3px; margin: 0 0 8px 0;
        }
        .entry { margin-bottom: 10px; }
        .entry .heading { font-weight: bold; }
        .entry .dates { float: right; color: #6b7280; font-size: 9pt; }
        .entry .sub { color: #374151; font-weight: 600; font-size: 9.5pt; }
        .entry .description { color: #4b5563; font-size: 9pt; white-space: pre-wrap; margin-top: 2px; }
        .labels span {
            display: inline-block; background: #f3f4f6; color: #374151;
            padding: 2px 8px; border-radius: 4px; margin: 0 4px 4px 0; font-size: 9pt;
        }
        .paragraph { white-space: pre-wrap; font-size: 9.5pt; line-height: 1.5; }
        .summary { font-size: 9.5pt; line-height: 1.5; color: #374151; }
        .letter .recipient { margin: 24px 0; line-height: 1.5; }
        .letter .greeting { font-weight: bold; margin-bottom: 12px; }
        .letter .body { white-space: pre-wrap; line-height: 1.7; min-height: 300px; text-align: justify; }
        .letter .signoff { margin-top: 32px; }
        .letter .signature { border-top: 1px solid #d1d5db; width: 200px; padding-top: 6px; font-weight: bold; margin-top: 28px; }
        #watermark-overlay {
            position: absolute; inset: 0; display: flex;
            align-items: center; justify-content: center;
            opacity: 0.08; pointer-events: none; z-index: 50;
        }
        #watermark-overlay .mark {
            transform: rotate(-45deg); font-size: 110pt; font-weight: 900; color: #6b7280;
        }
        @media print {
            @page { size: A4; margin: 0; }
            .a4-page { margin: 0; }
        }
    </style>
</head>
<body>
    <div class="a4-page" id="pdf-root">
        {{if .IsCoverLetter}}
        <div class="letter">
            <header>
                <h1>{{if .FullName}}{{.FullName}}{{else}}Your Name{{end}}</h1>
                <div class="contact">
                    {{if .Email}}<span>{{.Email}}</span>{{end}}
                    {{if .Phone}}<span>{{.Phone}}</span>{{end}}
                    {{if .LinkedIn}}<span>{{.LinkedIn}}</span>{{end}}
                </div>
            </header>
            <div class="recipient">
                <div><b>{{.Date}}</b></div>
                <br>
                <div><b>{{if .Letter.RecipientName}}{{.Letter.RecipientName}}{{else}}Hiring Manager{{end}}</b></div>
                {{if .Letter.RecipientTitle}}<div>{{.Letter.RecipientTitle}}</div>{{end}}
                {{if .Letter.CompanyName}}<div>{{.Letter.CompanyName}}</div>{{end}}
                {{if .Letter.CompanyAddress}}<div>{{.Letter.CompanyAddress}}</div>{{end}}
            </div>
            <div class="greeting">{{.Letter.Greeting}}</div>
            <div class="body">{{.Letter.Body}}</div>
            <div class="signoff">{{.Letter.SignOff}}</div>
            <div class="signature">{{.FullName}}</div>
        </div>
        {{else}}
        <header>
            {{if .PhotoURL}}<img class="photo" src="{{.PhotoURL}}" alt="">{{end}}
            <h1>{{.FullName}}</h1>
            <div class="role">{{.Role}}</div>
            <div class="contact">
                {{if .Email}}<span>{{.Email}}</span>{{end}}
                {{if .Phone}}<span>{{.Phone}}</span>{{end}}
                {{if .LinkedIn}}<span>{{.LinkedIn}}</span>{{end}}
                {{if .Location}}<span>{{.Location}}</span>{{end}}
            </div>
        </header>
        {{if .Summary}}
        <div class="section">
            <h3>Professional Profile</h3>
            <div class="summary">{{.Summary}}</div>
        </div>
        {{end}}
        <div class="columns">
            {{range .Regions}}
            <div class="region {{.Class}}">
                {{range .Sections}}
                <div class="section">
                    <h3>{{.Title}}</h3>
                    {{if eq .Kind "entries"}}
                        {{range .Entries}}
                        <div class="entry">
                            <span class="dates">{{.Dates}}</span>
                            <div class="heading">{{.Heading}}</div>
                            {{if .Sub}}<div class="sub">{{.Sub}}</div>{{end}}
                            {{if .Description}}<div class="description">{{.Description}}</div>{{end}}
                        </div>
                        {{end}}
                    {{else if eq .Kind "paragraph"}}
                        <div class="paragraph">{{.Paragraph}}</div>
                    {{else}}
                        <div class="labels">
                            {{range .Labels}}<span>{{.}}</span>{{end}}
                        </div>
                    {{end}}
                </div>
                {{end}}
            </div>
            {{end}}
        </div>
        {{end}}
        <div id="watermark-overlay"><div class="mark">DRAFT</div></div>
    </div>
</body>
</html>
`
