// ABOUTME: Encrypted QR code generation for program instances
// ABOUTME: Builds the connection payload, obfuscates it, and writes a PNG

package console

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/centerops/cms-console/internal/client"
)

// QRSize is the rendered PNG width and height in pixels
const QRSize = 300

// qrPayload is the connection summary embedded in the QR code. Field order
// is part of the format.
type qrPayload struct {
	Program  string `json:"program,omitempty"`
	Code     string `json:"code,omitempty"`
	APIURL   string `json:"apiUrl"`
	Username string `json:"username"`
}

// QRPayload returns the plaintext JSON for inst
func QRPayload(inst client.ProgramInstance) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// scanners compare against JSON.stringify output, which leaves & < > alone
	enc.SetEscapeHTML(false)
	if err := enc.Encode(qrPayload{
		Program:  inst.Program.Name,
		Code:     inst.Program.Code,
		APIURL:   inst.APIURL,
		Username: inst.APIUsername,
	}); err != nil {
		return "", fmt.Errorf("encode QR payload: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// EncryptedQRPayload returns the obfuscated payload carried by the QR code
func (s *Service) EncryptedQRPayload(inst client.ProgramInstance) (string, error) {
	plain, err := QRPayload(inst)
	if err != nil {
		return "", err
	}
	sealed := s.qr.Encode(plain)
	if sealed == "" {
		return "", errors.New("encrypt QR payload")
	}
	return sealed, nil
}

// DownloadQR renders the encrypted QR code for inst into dir and returns
// the file path
func (s *Service) DownloadQR(inst client.ProgramInstance, dir string) (string, error) {
	sealed, err := s.EncryptedQRPayload(inst)
	if err != nil {
		return "", err
	}

	png, err := qrcode.Encode(sealed, qrcode.Medium, QRSize)
	if err != nil {
		return "", fmt.Errorf("render QR code: %w", err)
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, QRFileName(inst))
	if err := os.WriteFile(path, png, 0644); err != nil {
		return "", fmt.Errorf("write QR code: %w", err)
	}
	return path, nil
}

// QRFileName is "<program name>_QR.png" with path separators replaced
func QRFileName(inst client.ProgramInstance) string {
	name := inst.Program.Name
	if name == "" {
		name = "instance-" + inst.ID
	}
	name = strings.NewReplacer("/", "_", `\`, "_").Replace(name)
	return name + "_QR.png"
}
