package worker

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// A4 尺寸（英寸），与页面模板的 794x1122 像素画布一致。
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
)

// renderExportPage 启动 headless Chromium 并加载服务端渲染好的 HTML。
// 调用方必须在任务结束时执行 cleanup。
func renderExportPage(logger *slog.Logger, html string) (_ *rod.Page, cleanup func(), err error) {
	cleanup = func() {}

	launch := launcher.New().
		Headless(true).
		NoSandbox(true)
	defer func() {
		if err != nil {
			launch.Cleanup()
		}
	}()

	if path, ok := launcher.LookPath(); ok {
		launch = launch.Bin(path)
	}

	browserURL, err := launch.Launch()
	if err != nil {
		return nil, cleanup, fmt.Errorf("launch chromium: %w", err)
	}

	browser := rod.New().ControlURL(browserURL).Timeout(90 * time.Second)
	if err := browser.Connect(); err != nil {
		return nil, cleanup, fmt.Errorf("connect browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		return nil, cleanup, fmt.Errorf("open blank page: %w", err)
	}
	cleanup = func() {
		if page != nil {
			_ = page.Close()
		}
		_ = browser.Close()
		launch.Cleanup()
	}

	if err := page.SetDocumentContent(html); err != nil {
		return nil, cleanup, fmt.Errorf("set page content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, cleanup, fmt.Errorf("wait page load: %w", err)
	}

	// 等待字体就绪，避免回退字体度量导致排版差异
	logger.Info("Worker: Waiting for document.fonts.ready...")
	if _, evalErr := page.Timeout(5 * time.Second).Eval(`() => {
	  if (document && document.fonts && document.fonts.ready) {
	    return Promise.race([
	      document.fonts.ready.then(() => true),
	      new Promise((resolve) => setTimeout(() => resolve(true), 3000))
	    ]);
	  }
	  return true;
	}`); evalErr != nil {
		logger.Warn("Worker: document.fonts.ready wait failed, continue", slog.Any("error", evalErr))
	}

	if err := (proto.EmulationSetEmulatedMedia{Media: "print"}).Call(page); err != nil {
		return nil, cleanup, fmt.Errorf("set emulated media to print: %w", err)
	}

	if err := page.WaitIdle(30 * time.Second); err != nil {
		return nil, cleanup, fmt.Errorf("wait page idle: %w", err)
	}
	return page, cleanup, nil
}

// hideWatermark 在打印前隐藏水印层，返回恢复函数。
// 任何退出路径都必须调用恢复函数，保证页面状态不被导出过程污染。
func hideWatermark(page *rod.Page) (restore func(), err error) {
	if _, err := page.Timeout(5 * time.Second).Eval(`() => {
	  const el = document.getElementById('watermark-overlay');
	  if (el) el.style.display = 'none';
	  return !!el;
	}`); err != nil {
		return nil, fmt.Errorf("hide watermark overlay: %w", err)
	}
	restore = func() {
		_, _ = page.Timeout(5 * time.Second).Eval(`() => {
	  const el = document.getElementById('watermark-overlay');
	  if (el) el.style.display = '';
	}`)
	}
	return restore, nil
}

func exportPDF(page *rod.Page) ([]byte, error) {
	params := &proto.PagePrintToPDF{
		PrintBackground:   true,
		PaperWidth:        float64Ptr(a4WidthInches),
		PaperHeight:       float64Ptr(a4HeightInches),
		MarginTop:         float64Ptr(0),
		MarginBottom:      float64Ptr(0),
		MarginLeft:        float64Ptr(0),
		MarginRight:       float64Ptr(0),
		PreferCSSPageSize: true,
	}
	reader, err := page.PDF(params)
	if err != nil {
		return nil, fmt.Errorf("export pdf: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read pdf bytes: %w", err)
	}
	return data, nil
}

func float64Ptr(value float64) *float64 {
	return &value
}
