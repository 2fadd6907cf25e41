package transfer

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"

	"github.com/twiced-technology-gmbh/fivetodo/internal/clierr"
	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

// PayloadPrefix marks a share payload.
const PayloadPrefix = "tasks:"

// maxDecodedBytes bounds decompression of untrusted payloads.
const maxDecodedBytes = 32 << 20

// EncodePayload packs tasks into a single-line share payload:
// "tasks:" followed by the URL-safe base64 of the zlib-compressed envelope.
func EncodePayload(tasks []*task.Task) (string, error) {
	env := Envelope{V: Version, Tasks: tasks}
	if env.Tasks == nil {
		env.Tasks = []*task.Task{}
	}
	data, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("encoding payload: %w", err)
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return "", err
	}
	if _, err := zw.Write(data); err != nil {
		return "", fmt.Errorf("compressing payload: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("compressing payload: %w", err)
	}

	return PayloadPrefix + base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodePayload unpacks a share payload produced by EncodePayload.
func DecodePayload(payload string, now time.Time) ([]*task.Task, error) {
	payload = strings.TrimSpace(payload)
	body, ok := strings.CutPrefix(payload, PayloadPrefix)
	if !ok {
		return nil, invalidPayload("missing %q prefix", PayloadPrefix)
	}

	compressed, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(body, "="))
	if err != nil {
		return nil, invalidPayload("bad encoding: %v", err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, invalidPayload("bad compression: %v", err)
	}
	defer zr.Close()

	data, err := io.ReadAll(io.LimitReader(zr, maxDecodedBytes))
	if err != nil {
		return nil, invalidPayload("bad compression: %v", err)
	}
	return decodeEnvelope(data, now)
}

// RenderQR returns payload as a QR code drawn with half-block characters,
// ready to print on a terminal.
func RenderQR(payload string) (string, error) {
	qr, err := qrcode.New(payload, qrcode.Low)
	if err != nil {
		return "", tooLarge(payload, err)
	}
	return qr.ToSmallString(false), nil
}

// WriteQRPNG writes payload as a PNG QR code of size pixels to path.
func WriteQRPNG(path, payload string, size int) error {
	if err := qrcode.WriteFile(payload, qrcode.Low, size, path); err != nil {
		return tooLarge(payload, err)
	}
	return nil
}

func tooLarge(payload string, err error) error {
	return clierr.Newf(clierr.InvalidInput,
		"cannot encode %d-byte payload as a QR code: %v (use export instead)", len(payload), err).
		WithDetails(map[string]any{"bytes": len(payload)})
}
