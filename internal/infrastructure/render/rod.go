package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"ncr-quality-backend/internal/domain/eightd"
)

const (
	a4WidthMM  = 210.0
	a4HeightMM = 297.0
	a4WidthIn  = 8.27
	a4HeightIn = 11.69

	// CSS pixels of an A4 page at 96dpi
	a4WidthPx  = 794
	a4HeightPx = 1123
)

// Rod rasterizes a report with a headless browser and prints the raster as a one page A4 PDF.
// The browser is started on first use and shared until Close.
type Rod struct {
	controlURL string
	bin        string
	scale      float64
	log        *zap.Logger

	mu       sync.Mutex
	browser  *rod.Browser
	launched *launcher.Launcher
}

func NewRod(controlURL, bin string, scale float64, log *zap.Logger) *Rod {
	if scale <= 0 {
		scale = 2
	}
	return &Rod{controlURL: controlURL, bin: bin, scale: scale, log: log}
}

func (r *Rod) connect() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser != nil {
		return r.browser, nil
	}

	u := r.controlURL
	if u == "" {
		l := launcher.New().Headless(true)
		if r.bin != "" {
			l = l.Bin(r.bin)
		}
		var err error
		if u, err = l.Launch(); err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		r.launched = l
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	r.browser = b
	r.log.Info("render: browser connected", zap.String("control_url", u))
	return b, nil
}

// Close shuts the shared browser down.
func (r *Rod) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launched != nil {
		r.launched.Kill()
		r.launched = nil
	}
	return err
}

func (r *Rod) Render(ctx context.Context, rep *eightd.Report) ([]byte, error) {
	doc, err := Document(rep)
	if err != nil {
		return nil, err
	}
	browser, err := r.connect()
	if err != nil {
		return nil, err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             a4WidthPx,
		Height:            a4HeightPx,
		DeviceScaleFactor: r.scale,
	}); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}
	if err := page.SetDocumentContent(doc); err != nil {
		return nil, fmt.Errorf("load report document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait report document: %w", err)
	}
	shot, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("rasterize report: %w", err)
	}

	raster, err := imaging.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("decode raster: %w", err)
	}
	fitted, widthMM, heightMM := FitA4(raster, r.scale)
	var png bytes.Buffer
	if err := imaging.Encode(&png, fitted, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode raster: %w", err)
	}

	sheet, err := imagePage(base64.StdEncoding.EncodeToString(png.Bytes()), widthMM, heightMM)
	if err != nil {
		return nil, err
	}
	if err := page.SetDocumentContent(sheet); err != nil {
		return nil, fmt.Errorf("load pdf page: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait pdf page: %w", err)
	}

	paperW, paperH, margin := a4WidthIn, a4HeightIn, 0.0
	stream, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      &paperW,
		PaperHeight:     &paperH,
		MarginTop:       &margin,
		MarginBottom:    &margin,
		MarginLeft:      &margin,
		MarginRight:     &margin,
		PrintBackground: true,
		PageRanges:      "1",
	})
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	defer stream.Close()
	out, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	return out, nil
}

// FitA4 scales img into an A4 box at the given pixel density, keeping its aspect ratio,
// and returns the size it occupies on the page in millimetres.
func FitA4(img image.Image, scale float64) (image.Image, float64, float64) {
	boxW := int(float64(a4WidthPx) * scale)
	boxH := int(float64(a4HeightPx) * scale)
	fitted := imaging.Fit(img, boxW, boxH, imaging.Lanczos)
	b := fitted.Bounds()
	return fitted, a4WidthMM * float64(b.Dx()) / float64(boxW), a4HeightMM * float64(b.Dy()) / float64(boxH)
}
