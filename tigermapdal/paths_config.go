package tigermapdal

import (
	"os"

	"github.com/jamesrr39/goutil/errorsx"
)

type PathsConfig struct {
	ShapefilesDir string
	POIDir        string
	PresetsDir    string
	OutputDir     string
	TraceDir      string
}

func (pc *PathsConfig) EnsurePaths() errorsx.Error {
	for _, dirPath := range []string{pc.ShapefilesDir, pc.POIDir, pc.PresetsDir, pc.OutputDir, pc.TraceDir} {
		err := os.MkdirAll(dirPath, 0755)
		if err != nil {
			return errorsx.Wrap(err)
		}
	}

	return nil
}
