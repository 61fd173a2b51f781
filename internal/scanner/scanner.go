package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/pwalczyk/scanserv-cli/internal/api"
)

var (
	// ErrNoScanners means the server reported an empty device list (or the
	// listing call failed). Selection cannot proceed without devices.
	ErrNoScanners = errors.New("no scanners found")
	// ErrNoDeviceSelected means a scan was attempted before SelectScanner.
	ErrNoDeviceSelected = errors.New("no scanner selected")
)

// InvalidSelectionError reports a device number that is not an integer or
// falls outside [1, Count]. Count is zero when the input did not parse.
type InvalidSelectionError struct {
	Input string
	Count int
}

func (e *InvalidSelectionError) Error() string {
	if e.Count > 0 {
		return fmt.Sprintf("invalid scanner number %q: choose between 1 and %d", e.Input, e.Count)
	}
	return fmt.Sprintf("invalid scanner number %q", e.Input)
}

// Scanner drives the scan workflow against one server: it holds the device
// list from the last listing, the selected device id, and the writers all
// user-facing output goes to. Console output is part of the contract here,
// not a side detail, so out/errOut are injected for tests.
type Scanner struct {
	client *api.Client
	out    io.Writer
	errOut io.Writer

	devices  []api.Device
	deviceID string
}

func New(client *api.Client, out, errOut io.Writer) *Scanner {
	return &Scanner{client: client, out: out, errOut: errOut}
}

// SelectedDevice returns the id of the currently selected device, or "".
func (s *Scanner) SelectedDevice() string {
	return s.deviceID
}

// ListScanners fetches the device list, caches it for selection, and prints
// a 1-based enumerated listing. Returns nil on any server failure.
func (s *Scanner) ListScanners(ctx context.Context) []api.Device {
	resp, err := s.client.Context(ctx)
	if err != nil {
		s.reportError(err)
		return nil
	}
	s.devices = resp.Devices

	fmt.Fprintln(s.out, "Available scanners:")
	for i, d := range s.devices {
		fmt.Fprintf(s.out, "%d. ID: %s\n", i+1, d.ID)
		fmt.Fprintf(s.out, "   Name: %s\n\n", d.Name)
	}
	return s.devices
}

// SelectScanner picks a device by its 1-based number as shown by
// ListScanners. If no listing has happened yet it lists first. The returned
// errors are the only fatal ones in the CLI: without a valid device id no
// scan operation is meaningful.
func (s *Scanner) SelectScanner(ctx context.Context, number string) error {
	if len(s.devices) == 0 {
		s.ListScanners(ctx)
	}
	if len(s.devices) == 0 {
		fmt.Fprintln(s.errOut, "No scanners found")
		return ErrNoScanners
	}

	n, err := strconv.Atoi(number)
	if err != nil {
		fmt.Fprintln(s.errOut, "Invalid scanner number")
		return &InvalidSelectionError{Input: number}
	}
	if n < 1 || n > len(s.devices) {
		fmt.Fprintf(s.errOut, "Invalid scanner number. Please choose between 1 and %d\n", len(s.devices))
		return &InvalidSelectionError{Input: number, Count: len(s.devices)}
	}

	s.deviceID = s.devices[n-1].ID
	fmt.Fprintf(s.out, "Selected scanner: %s\n", s.devices[n-1].Name)
	return nil
}

// ScanA4 scans a full A4 page on the selected device. dest controls the
// download of the result: nil means scan only, a pointer to "" means
// download to the current directory, anything else is the output directory.
// The three states are distinct on purpose.
//
// Returns the local path when a file was downloaded. A scan that succeeds
// without file information is not an error; only the missing-device
// precondition is reported as a typed error, and it is checked before any
// request goes out.
func (s *Scanner) ScanA4(ctx context.Context, dest *string, resolution int, mode, quality string) (string, error) {
	if s.deviceID == "" {
		fmt.Fprintln(s.errOut, "No scanner selected. Use --device to select a scanner.")
		return "", ErrNoDeviceSelected
	}

	fmt.Fprintln(s.out, "Scanning...")
	result, err := s.client.Scan(ctx, api.NewA4Request(s.deviceID, resolution, mode, quality))
	if err != nil {
		s.reportError(err)
		// Scan failures often carry a diagnostic body worth showing.
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) && statusErr.Body != "" {
			fmt.Fprintln(s.errOut, statusErr.Body)
		}
		return "", err
	}

	if result.File == nil {
		fmt.Fprintln(s.out, "Scan completed but no file information returned")
		return "", nil
	}

	fmt.Fprintln(s.out, "Scan successful!")
	fmt.Fprintf(s.out, "File on server: %s\n", result.File.Name)

	if dest == nil {
		return "", nil
	}

	fmt.Fprintln(s.out, "Downloading...")
	path, err := s.DownloadFile(ctx, result.File.Name, *dest)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(s.out, "Saved to: %s\n", path)
	return path, nil
}

// reportError prints a failed server call the way the user sees it: the
// status code for HTTP-level failures, a connection error otherwise.
func (s *Scanner) reportError(err error) {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		fmt.Fprintf(s.errOut, "Error: %d\n", statusErr.Code)
		return
	}
	fmt.Fprintf(s.errOut, "Connection error: %v\n", err)
}
