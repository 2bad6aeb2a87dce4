package tigermapexport

import (
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"path/filepath"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/humanise"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/tigermap/tigermaprenderer"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dpdf"
	"github.com/llgcode/draw2d/draw2dsvg"
	"github.com/jung-kurt/gofpdf"
)

// ErrUnsupportedFormat indicates a requested output format this package
// cannot produce.
var ErrUnsupportedFormat = errors.New("unsupported output format")

type Format string

const (
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
)

// ParseFormat normalises a user-supplied format name ("PNG", ".pdf") to a
// Format. Unknown names come back wrapping ErrUnsupportedFormat.
func ParseFormat(name string) (Format, errorsx.Error) {
	normalised := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	switch Format(normalised) {
	case FormatPNG, FormatPDF, FormatSVG:
		return Format(normalised), nil
	default:
		return "", errorsx.Wrap(ErrUnsupportedFormat, "format", name)
	}
}

// ArtifactInfo describes one written output file.
type ArtifactInfo struct {
	Path      string  `json:"path"`
	Name      string  `json:"name"`
	Format    Format  `json:"format"`
	SizeBytes int64   `json:"sizeBytes"`
	SizeMB    float64 `json:"sizeMb"`
}

// SizeMBOf converts a byte count to megabytes, rounded to two decimal
// places. All reported artifact sizes go through this.
func SizeMBOf(sizeBytes int64) float64 {
	return math.Round(float64(sizeBytes)/(1<<20)*100) / 100
}

type Exporter struct {
	fs        gofs.Fs
	logger    *logpkg.Logger
	outputDir string
}

func NewExporter(fs gofs.Fs, logger *logpkg.Logger, outputDir string) *Exporter {
	return &Exporter{fs: fs, logger: logger, outputDir: outputDir}
}

// Export replays the canvas into one output file named baseName.<format>
// under the output directory, replacing any previous file of that name.
func (e *Exporter) Export(canvas *tigermaprenderer.Canvas, baseName string, format Format) (*ArtifactInfo, errorsx.Error) {
	err := e.fs.MkdirAll(e.outputDir, 0755)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	fileName := fmt.Sprintf("%s.%s", baseName, format)
	filePath := filepath.Join(e.outputDir, fileName)

	// a stale artifact from a previous run must not survive a failed write
	_, statErr := e.fs.Stat(filePath)
	if statErr == nil {
		removeErr := e.fs.Remove(filePath)
		if removeErr != nil {
			return nil, errorsx.Wrap(removeErr, "filePath", filePath)
		}
	}

	switch format {
	case FormatPNG:
		err = e.exportPNG(canvas, filePath)
	case FormatPDF:
		err = e.exportPDF(canvas, filePath)
	case FormatSVG:
		err = e.exportSVG(canvas, filePath)
	default:
		return nil, errorsx.Wrap(ErrUnsupportedFormat, "format", string(format))
	}
	if err != nil {
		return nil, errorsx.Wrap(err, "filePath", filePath)
	}

	fileInfo, statErr := e.fs.Stat(filePath)
	if statErr != nil {
		return nil, errorsx.Wrap(statErr, "filePath", filePath)
	}

	sizeBytes := fileInfo.Size()
	e.logger.Info("wrote %q (%s)", filePath, humanise.HumaniseBytes(sizeBytes))

	return &ArtifactInfo{
		Path:      filePath,
		Name:      fileName,
		Format:    format,
		SizeBytes: sizeBytes,
		SizeMB:    SizeMBOf(sizeBytes),
	}, nil
}

// ExportAll exports the canvas once per requested format. Unsupported
// formats are logged and skipped so one bad name does not abandon the
// formats that can be written; any other failure aborts.
func (e *Exporter) ExportAll(canvas *tigermaprenderer.Canvas, baseName string, formats []Format) ([]*ArtifactInfo, errorsx.Error) {
	var artifacts []*ArtifactInfo

	for _, format := range formats {
		artifact, err := e.Export(canvas, baseName, format)
		if err != nil {
			if errorsx.Cause(err) == ErrUnsupportedFormat {
				e.logger.Warn("skipping unsupported format %q", string(format))
				continue
			}
			return nil, errorsx.Wrap(err, "format", string(format))
		}
		artifacts = append(artifacts, artifact)
	}

	return artifacts, nil
}

func (e *Exporter) exportPNG(canvas *tigermaprenderer.Canvas, filePath string) errorsx.Error {
	pxW := int(math.Round(canvas.WidthInches() * float64(canvas.DPI())))
	pxH := int(math.Round(canvas.HeightInches() * float64(canvas.DPI())))

	img := image.NewRGBA(image.Rect(0, 0, pxW, pxH))
	gc := draw2dimg.NewGraphicContext(img)

	err := canvas.RenderTo(gc, float64(pxW), float64(pxH))
	if err != nil {
		return errorsx.Wrap(err)
	}

	file, createErr := e.fs.Create(filePath)
	if createErr != nil {
		return errorsx.Wrap(createErr)
	}
	defer file.Close()

	encodeErr := png.Encode(file, img)
	if encodeErr != nil {
		return errorsx.Wrap(encodeErr)
	}

	return nil
}

func (e *Exporter) exportPDF(canvas *tigermaprenderer.Canvas, filePath string) errorsx.Error {
	widthPt := canvas.WidthInches() * 72
	heightPt := canvas.HeightInches() * 72

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: widthPt, Ht: heightPt},
	})
	pdf.AddPage()

	gc := draw2dpdf.NewGraphicContext(pdf)

	err := canvas.RenderTo(gc, widthPt, heightPt)
	if err != nil {
		return errorsx.Wrap(err)
	}

	file, createErr := e.fs.Create(filePath)
	if createErr != nil {
		return errorsx.Wrap(createErr)
	}
	defer file.Close()

	outputErr := pdf.Output(file)
	if outputErr != nil {
		return errorsx.Wrap(outputErr)
	}

	return nil
}

func (e *Exporter) exportSVG(canvas *tigermaprenderer.Canvas, filePath string) errorsx.Error {
	// 96 user units per inch, matching the CSS pixel the width/height
	// attributes are resolved against
	pxW := canvas.WidthInches() * 96
	pxH := canvas.HeightInches() * 96

	svg := draw2dsvg.NewSvg()
	svg.Width = fmt.Sprintf("%gin", canvas.WidthInches())
	svg.Height = fmt.Sprintf("%gin", canvas.HeightInches())

	gc := draw2dsvg.NewGraphicContext(svg)

	err := canvas.RenderTo(gc, pxW, pxH)
	if err != nil {
		return errorsx.Wrap(err)
	}

	file, createErr := e.fs.Create(filePath)
	if createErr != nil {
		return errorsx.Wrap(createErr)
	}
	defer file.Close()

	_, writeErr := file.WriteString(xml.Header)
	if writeErr != nil {
		return errorsx.Wrap(writeErr)
	}

	encodeErr := xml.NewEncoder(file).Encode(svg)
	if encodeErr != nil {
		return errorsx.Wrap(encodeErr)
	}

	return nil
}
