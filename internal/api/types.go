package api

import "fmt"

// Device is one scan device exposed by the server's context endpoint.
type Device struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ContextResponse is the payload of GET /api/v1/context.
type ContextResponse struct {
	Devices []Device `json:"devices"`
}

// RemoteFile is one entry from GET /api/v1/files. The server reports the
// size pre-formatted ("1.2 MB"), so we keep it as a string.
type RemoteFile struct {
	Name       string `json:"name"`
	SizeString string `json:"sizeString"`
}

// ScanParams is the geometry and device portion of a scan request.
type ScanParams struct {
	DeviceID   string `json:"deviceId"`
	Resolution int    `json:"resolution"`
	Mode       string `json:"mode"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	PageWidth  int    `json:"pageWidth"`
	PageHeight int    `json:"pageHeight"`
	Top        int    `json:"top"`
	Left       int    `json:"left"`
}

// ScanRequest is the body of POST /api/v1/scan. Pipeline is a server-defined
// directive combining output format and quality preset.
type ScanRequest struct {
	Params   ScanParams `json:"params"`
	Pipeline string     `json:"pipeline"`
}

// ScanFile names the file the server produced for a scan.
type ScanFile struct {
	Name string `json:"name"`
}

// ScanResult is the scan response. File is nil when the scan completed but
// the server returned no file information.
type ScanResult struct {
	File *ScanFile `json:"file"`
}

// A4 paper dimensions in mm. The only paper size this client supports.
const (
	a4WidthMM  = 210
	a4HeightMM = 297
)

// NewA4Request builds a full-page A4 scan request for the given device.
// Quality is one of "high", "medium", "low" and selects the server-side
// processing pipeline preset.
func NewA4Request(deviceID string, resolution int, mode, quality string) ScanRequest {
	return ScanRequest{
		Params: ScanParams{
			DeviceID:   deviceID,
			Resolution: resolution,
			Mode:       mode,
			Width:      a4WidthMM,
			Height:     a4HeightMM,
			PageWidth:  a4WidthMM,
			PageHeight: a4HeightMM,
			Top:        0,
			Left:       0,
		},
		Pipeline: fmt.Sprintf("JPG | @:pipeline.%s-quality", quality),
	}
}
