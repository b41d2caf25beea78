package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	jobmodel "github.com/easayliu/emby-tv-organizer/internal/domain/models/job"
	"github.com/easayliu/emby-tv-organizer/pkg/logger"
)

// Writer 整理结果HTML报告生成器
// 报告是给人看的迁移清单: 每个节目的目标路径、每集的迁移终态
// 以及未整理节目的原因
type Writer struct {
	outputDir string
}

// NewWriter 创建报告生成器
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

type reportData struct {
	Job         *jobmodel.Job
	GeneratedAt string
}

// Write 渲染任务报告，返回生成的文件路径
func (w *Writer) Write(j *jobmodel.Job) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(w.outputDir, fmt.Sprintf("organize-%s.html", j.ID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	data := reportData{
		Job:         j,
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
	}
	if err := reportTemplate.Execute(f, data); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	logger.Info("Report written", "jobID", j.ID, "path", path)
	return path, nil
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="utf-8">
<title>整理报告 {{.Job.ID}}</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
h1 { font-size: 1.4em; }
h2 { font-size: 1.1em; margin-top: 1.5em; }
table { border-collapse: collapse; width: 100%; margin-top: .5em; }
th, td { border: 1px solid #ccc; padding: .35em .6em; text-align: left; font-size: .9em; }
th { background: #f5f5f5; }
.status-moved { color: #1a7f37; }
.status-skipped { color: #9a6700; }
.status-error, .status-timeout { color: #cf222e; }
.meta { color: #666; font-size: .85em; }
</style>
</head>
<body>
<h1>电视剧整理报告</h1>
<p class="meta">任务 {{.Job.ID}} · 状态 {{.Job.Status}} · 生成于 {{.GeneratedAt}}</p>
<p class="meta">输入目录 {{.Job.InputDir}} → 输出目录 {{.Job.OutputDir}}</p>

<h2>统计</h2>
<table>
<tr>{{range $k, $v := .Job.Stats}}<th>{{$k}}</th>{{end}}</tr>
<tr>{{range $k, $v := .Job.Stats}}<td>{{$v}}</td>{{end}}</tr>
</table>

{{range .Job.ProcessedShows}}
<h2>{{.Name}} ({{.Year}}) · tmdb-{{.TMDBID}}{{if .Category}} · {{.Category}}{{end}}</h2>
<p class="meta">{{.SourceDir}} → {{.TargetDir}}</p>
<table>
<tr><th>季</th><th>集</th><th>标题</th><th>目标文件</th><th>状态</th><th>备注</th></tr>
{{range .Seasons}}{{range .Episodes}}
<tr>
<td>{{.Season}}</td>
<td>{{.Number}}{{if .EndNumber}}-{{.EndNumber}}{{end}}</td>
<td>{{.Title}}</td>
<td>{{.Destination}}</td>
<td class="status-{{.Status}}">{{.Status}}</td>
<td>{{.Reason}}</td>
</tr>
{{end}}{{end}}
</table>
{{end}}

{{if .Job.UnprocessedShows}}
<h2>未整理</h2>
<table>
<tr><th>文件夹</th><th>原因</th></tr>
{{range .Job.UnprocessedShows}}
<tr><td>{{.Name}}</td><td>{{.Reason}}</td></tr>
{{end}}
</table>
{{end}}
</body>
</html>
`))
