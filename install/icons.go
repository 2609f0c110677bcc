package install

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// IconBaseName is the stem of every generated icon file.
const IconBaseName = "sclab-app"

// MainIconSize is the size of the default PNG icon referenced by desktop
// entries when no size-specific variant is requested.
const MainIconSize = 128

// PNGIconSizes are the sizes rendered for the Linux icon set.
var PNGIconSizes = []int{16, 24, 32, 48, 64, 96, 128, 256}

// ICOIconSizes are the sizes embedded in the Windows ICO container.
var ICOIconSizes = []int{16, 24, 32, 48, 64, 128, 256}

// icnsIconTypes maps rendered sizes to their ICNS chunk types. Only the
// PNG-payload types are used; the legacy bitmap types are never written.
var icnsIconTypes = []struct {
	Size int
	Type string
}{
	{16, "icp4"},
	{32, "icp5"},
	{64, "icp6"},
	{128, "ic07"},
	{256, "ic08"},
	{512, "ic09"},
	{1024, "ic10"},
}

// IconExt returns the icon file extension shortcuts reference on a platform.
// This is a pure function with no side effects.
func IconExt(goos string) string {
	switch goos {
	case "windows":
		return "ico"
	case "darwin":
		return "icns"
	default:
		return "png"
	}
}

// GenerateIcons renders the platform icon set from the source logo into
// outDir and returns the created file paths. Linux gets the sized PNG set
// plus the main PNG, Windows a multi-size ICO, macOS an ICNS; the containers
// embed PNG entries directly.
func GenerateIcons(logoPath, outDir, goos string) ([]string, error) {
	data, err := os.ReadFile(logoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read logo %s: %w", logoPath, err)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode logo %s: %w", logoPath, err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create icon directory: %w", err)
	}

	// Each size is rendered once and reused across containers.
	rendered := map[int][]byte{}
	render := func(size int) ([]byte, error) {
		if data, ok := rendered[size]; ok {
			return data, nil
		}
		data, err := encodePNG(ScaleIcon(src, size))
		if err != nil {
			return nil, err
		}
		rendered[size] = data
		return data, nil
	}

	switch goos {
	case "windows":
		entries := make([]icoEntry, 0, len(ICOIconSizes))
		for _, size := range ICOIconSizes {
			data, err := render(size)
			if err != nil {
				return nil, err
			}
			entries = append(entries, icoEntry{Size: size, PNG: data})
		}
		path := filepath.Join(outDir, IconBaseName+".ico")
		if err := writeICO(path, entries); err != nil {
			return nil, err
		}
		return []string{path}, nil

	case "darwin":
		chunks := make([]icnsChunk, 0, len(icnsIconTypes))
		for _, entry := range icnsIconTypes {
			data, err := render(entry.Size)
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, icnsChunk{Type: entry.Type, PNG: data})
		}
		path := filepath.Join(outDir, IconBaseName+".icns")
		if err := writeICNS(path, chunks); err != nil {
			return nil, err
		}
		return []string{path}, nil

	default:
		created := make([]string, 0, len(PNGIconSizes)+1)
		for _, size := range PNGIconSizes {
			data, err := render(size)
			if err != nil {
				return nil, err
			}
			path := filepath.Join(outDir, fmt.Sprintf("%s_%dx%d.png", IconBaseName, size, size))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", path, err)
			}
			created = append(created, path)
		}

		data, err := render(MainIconSize)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(outDir, IconBaseName+".png")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		return append(created, path), nil
	}
}

// ScaleIcon resizes an image to a size x size square using high-quality
// scaling. The image is scaled to fit while keeping its aspect ratio and
// centered over a transparent background.
// This is a pure function with no side effects.
func ScaleIcon(src image.Image, size int) *image.RGBA {
	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	scale := float64(size) / float64(max(width, height))
	newWidth := int(float64(width) * scale)
	newHeight := int(float64(height) * scale)
	offsetX := (size - newWidth) / 2
	offsetY := (size - newHeight) / 2

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	target := image.Rect(offsetX, offsetY, offsetX+newWidth, offsetY+newHeight)
	draw.CatmullRom.Scale(dst, target, src, bounds, draw.Over, nil)
	return dst
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode icon: %w", err)
	}
	return buf.Bytes(), nil
}

// icoEntry is one image in an ICO container.
type icoEntry struct {
	Size int
	PNG  []byte
}

// writeICO writes a Windows ICO container with PNG-compressed entries.
// Layout: ICONDIR header, one ICONDIRENTRY per image, then the image data.
func writeICO(path string, entries []icoEntry) error {
	var buf bytes.Buffer

	// ICONDIR: reserved, type 1 (icon), image count
	header := []uint16{0, 1, uint16(len(entries))}
	for _, v := range header {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("failed to write ICO header: %w", err)
		}
	}

	// Directory entries precede all image data
	offset := uint32(6 + 16*len(entries))
	for _, entry := range entries {
		// 256 is encoded as 0 in the single-byte dimension fields
		dim := byte(entry.Size)
		if entry.Size >= 256 {
			dim = 0
		}
		buf.WriteByte(dim) // width
		buf.WriteByte(dim) // height
		buf.WriteByte(0)   // palette size (none)
		buf.WriteByte(0)   // reserved
		for _, v := range []uint16{1, 32} { // color planes, bits per pixel
			if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
				return fmt.Errorf("failed to write ICO entry: %w", err)
			}
		}
		for _, v := range []uint32{uint32(len(entry.PNG)), offset} {
			if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
				return fmt.Errorf("failed to write ICO entry: %w", err)
			}
		}
		offset += uint32(len(entry.PNG))
	}

	for _, entry := range entries {
		buf.Write(entry.PNG)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// icnsChunk is one typed image in an ICNS container.
type icnsChunk struct {
	Type string
	PNG  []byte
}

// writeICNS writes a macOS ICNS container: the "icns" magic and total
// length, then one OSType-tagged PNG chunk per size. Lengths are big-endian
// and include the 8-byte chunk header.
func writeICNS(path string, chunks []icnsChunk) error {
	total := 8
	for _, chunk := range chunks {
		total += 8 + len(chunk.PNG)
	}

	var buf bytes.Buffer
	buf.WriteString("icns")
	if err := binary.Write(&buf, binary.BigEndian, uint32(total)); err != nil {
		return fmt.Errorf("failed to write ICNS header: %w", err)
	}

	for _, chunk := range chunks {
		if len(chunk.Type) != 4 {
			return fmt.Errorf("invalid ICNS chunk type %q", chunk.Type)
		}
		buf.WriteString(chunk.Type)
		if err := binary.Write(&buf, binary.BigEndian, uint32(8+len(chunk.PNG))); err != nil {
			return fmt.Errorf("failed to write ICNS chunk: %w", err)
		}
		buf.Write(chunk.PNG)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
