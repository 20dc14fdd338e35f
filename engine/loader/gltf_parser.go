package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"cogentcore.org/core/base/errors"
)

var (
	errInvalidGLTFVersion = errors.New("invalid glTF version: must be 2.0")
	errInvalidGLBMagic    = errors.New("invalid GLB magic number")
	errInvalidGLBVersion  = errors.New("invalid GLB version: must be 2")
	errMissingJSONChunk   = errors.New("GLB file missing JSON chunk")
	errInvalidBufferURI   = errors.New("invalid buffer URI")
	errBufferSizeMismatch = errors.New("buffer size mismatch")
)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct {
	baseDir        string
	document       *gltfDocument
	glbBinaryChunk []byte
}

// gltfParser loads glTF/GLB documents and decodes accessors into flat slices.
type gltfParser interface {
	// Parse loads a .gltf or .glb file. GLB is detected by extension or magic number.
	//
	// Parameters:
	//   - path: path to the glTF or GLB file
	//
	// Returns:
	//   - error: error if parsing fails
	Parse(path string) error

	// ParseReader parses a document from a reader. External buffer URIs resolve
	// against the working directory.
	//
	// Parameters:
	//   - r: reader containing glTF JSON or GLB data
	//   - isGLB: true if the data is in GLB format
	//
	// Returns:
	//   - error: error if parsing fails
	ParseReader(r io.Reader, isGLB bool) error

	// Document returns the parsed document, or nil before a successful parse.
	Document() *gltfDocument

	// ReadFloats decodes an accessor of the given type into a flat float slice.
	// Normalized integer components are converted to [0, 1] or [-1, 1].
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//   - accessorType: the expected accessor type (SCALAR, VEC2, ...)
	//
	// Returns:
	//   - []float32: count * components floats
	//   - error: error if the accessor is missing or of another type
	ReadFloats(accessorIndex int, accessorType string) ([]float32, error)

	// ReadUints decodes an unsigned integer accessor of the given type into a flat slice.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//   - accessorType: the expected accessor type
	//
	// Returns:
	//   - []uint32: count * components values
	//   - error: error if the accessor is missing, of another type or not unsigned
	ReadUints(accessorIndex int, accessorType string) ([]uint32, error)
}

var _ gltfParser = &gltfParserImpl{}

func newGLTFParser() gltfParser {
	return &gltfParserImpl{}
}

func (p *gltfParserImpl) Document() *gltfDocument {
	return p.document
}

func (p *gltfParserImpl) Parse(path string) error {
	p.baseDir = filepath.Dir(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".glb" || (len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == gltfGLBMagic) {
		return p.parseGLB(data)
	}
	return p.parseGLTF(data)
}

func (p *gltfParserImpl) ParseReader(r io.Reader, isGLB bool) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}
	if isGLB {
		return p.parseGLB(data)
	}
	return p.parseGLTF(data)
}

func (p *gltfParserImpl) parseGLTF(data []byte) error {
	var doc gltfDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return errInvalidGLTFVersion
	}
	if err := p.loadBuffers(&doc); err != nil {
		return fmt.Errorf("failed to load buffers: %w", err)
	}
	p.document = &doc
	return nil
}

func (p *gltfParserImpl) parseGLB(data []byte) error {
	r := bytes.NewReader(data)

	var header gltfGLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to read GLB header: %w", err)
	}
	if header.Magic != gltfGLBMagic {
		return errInvalidGLBMagic
	}
	if header.Version != gltfGLBVersion {
		return errInvalidGLBVersion
	}

	var jsonData []byte
	for {
		var chunk gltfGLBChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read chunk header: %w", err)
		}
		body := make([]byte, chunk.ChunkLength)
		if _, err := io.ReadFull(r, body); err != nil {
			return fmt.Errorf("failed to read chunk data: %w", err)
		}
		switch chunk.ChunkType {
		case gltfGLBChunkJSON:
			jsonData = body
		case gltfGLBChunkBIN:
			p.glbBinaryChunk = body
		}
	}
	if jsonData == nil {
		return errMissingJSONChunk
	}
	return p.parseGLTF(jsonData)
}

// loadBuffers resolves every buffer from the GLB binary chunk, a data URI or a file.
func (p *gltfParserImpl) loadBuffers(doc *gltfDocument) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]
		switch {
		case buf.URI == "" && i == 0 && p.glbBinaryChunk != nil:
			buf.Data = p.glbBinaryChunk
		case buf.URI == "":
			return fmt.Errorf("buffer %d has no URI and no GLB binary chunk", i)
		case strings.HasPrefix(buf.URI, "data:"):
			data, err := decodeDataURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.Data = data
		default:
			data, err := os.ReadFile(filepath.Join(p.baseDir, buf.URI))
			if err != nil {
				return fmt.Errorf("buffer %d: failed to load %q: %w", i, buf.URI, err)
			}
			buf.Data = data
		}
		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, errBufferSizeMismatch)
		}
	}
	return nil
}

// decodeDataURI decodes data:[<mediatype>];base64,<data>.
func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, errInvalidBufferURI
	}
	if !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("unsupported data URI encoding: %s", header)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return data, nil
}

// accessorElements returns the accessor, its component count and one byte slice per element.
func (p *gltfParserImpl) accessorElements(accessorIndex int, accessorType string) (*gltfAccessor, int, [][]byte, error) {
	if p.document == nil {
		return nil, 0, nil, errors.New("no document loaded")
	}
	if accessorIndex < 0 || accessorIndex >= len(p.document.Accessors) {
		return nil, 0, nil, fmt.Errorf("accessor index %d out of range", accessorIndex)
	}
	acc := &p.document.Accessors[accessorIndex]
	if acc.Type != accessorType {
		return nil, 0, nil, fmt.Errorf("accessor %d is %s, want %s", accessorIndex, acc.Type, accessorType)
	}
	if len(acc.Sparse) > 0 {
		return nil, 0, nil, fmt.Errorf("accessor %d: sparse accessors are not supported", accessorIndex)
	}
	if acc.BufferView == nil || *acc.BufferView >= len(p.document.BufferViews) {
		return nil, 0, nil, fmt.Errorf("accessor %d has no bufferView", accessorIndex)
	}

	bv := &p.document.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(p.document.Buffers) {
		return nil, 0, nil, fmt.Errorf("bufferView %d: buffer %d out of range", *acc.BufferView, bv.Buffer)
	}
	buf := p.document.Buffers[bv.Buffer].Data

	components := gltfAccessorTypeComponentCount(acc.Type)
	elementSize := gltfComponentTypeSize(acc.ComponentType) * components
	if elementSize == 0 {
		return nil, 0, nil, fmt.Errorf("accessor %d: unsupported component type %d", accessorIndex, acc.ComponentType)
	}
	stride := elementSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}

	offset := bv.ByteOffset + acc.ByteOffset
	if acc.Count > 0 && offset+(acc.Count-1)*stride+elementSize > len(buf) {
		return nil, 0, nil, fmt.Errorf("accessor %d: %w", accessorIndex, errBufferSizeMismatch)
	}
	elements := make([][]byte, acc.Count)
	for i := range elements {
		start := offset + i*stride
		elements[i] = buf[start : start+elementSize]
	}
	return acc, components, elements, nil
}

func (p *gltfParserImpl) ReadFloats(accessorIndex int, accessorType string) ([]float32, error) {
	acc, components, elements, err := p.accessorElements(accessorIndex, accessorType)
	if err != nil {
		return nil, err
	}
	if acc.ComponentType != gltfComponentTypeFloat && !acc.Normalized {
		return nil, fmt.Errorf("accessor %d: component type %d is neither float nor normalized", accessorIndex, acc.ComponentType)
	}

	size := gltfComponentTypeSize(acc.ComponentType)
	out := make([]float32, 0, len(elements)*components)
	for _, el := range elements {
		for c := range components {
			out = append(out, decodeComponent(el[c*size:], acc.ComponentType))
		}
	}
	return out, nil
}

// decodeComponent reads one little-endian component, normalizing integer types.
func decodeComponent(b []byte, componentType int) float32 {
	switch componentType {
	case gltfComponentTypeFloat:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	case gltfComponentTypeUnsignedByte:
		return float32(b[0]) / 255
	case gltfComponentTypeByte:
		return max(float32(int8(b[0]))/127, -1)
	case gltfComponentTypeUnsignedShort:
		return float32(binary.LittleEndian.Uint16(b)) / 65535
	case gltfComponentTypeShort:
		return max(float32(int16(binary.LittleEndian.Uint16(b)))/32767, -1)
	}
	return 0
}

func (p *gltfParserImpl) ReadUints(accessorIndex int, accessorType string) ([]uint32, error) {
	acc, components, elements, err := p.accessorElements(accessorIndex, accessorType)
	if err != nil {
		return nil, err
	}

	out := make([]uint32, 0, len(elements)*components)
	for _, el := range elements {
		for c := range components {
			switch acc.ComponentType {
			case gltfComponentTypeUnsignedByte:
				out = append(out, uint32(el[c]))
			case gltfComponentTypeUnsignedShort:
				out = append(out, uint32(binary.LittleEndian.Uint16(el[c*2:])))
			case gltfComponentTypeUnsignedInt:
				out = append(out, binary.LittleEndian.Uint32(el[c*4:]))
			default:
				return nil, fmt.Errorf("accessor %d: component type %d is not unsigned", accessorIndex, acc.ComponentType)
			}
		}
	}
	return out, nil
}

// gltfComponentTypeSize returns the byte size of a component type.
func gltfComponentTypeSize(componentType int) int {
	switch componentType {
	case gltfComponentTypeByte, gltfComponentTypeUnsignedByte:
		return 1
	case gltfComponentTypeShort, gltfComponentTypeUnsignedShort:
		return 2
	case gltfComponentTypeUnsignedInt, gltfComponentTypeFloat:
		return 4
	}
	return 0
}

// gltfAccessorTypeComponentCount returns the number of components for an accessor type.
func gltfAccessorTypeComponentCount(accessorType string) int {
	switch accessorType {
	case gltfAccessorTypeScalar:
		return 1
	case gltfAccessorTypeVec2:
		return 2
	case gltfAccessorTypeVec3:
		return 3
	case gltfAccessorTypeVec4:
		return 4
	case gltfAccessorTypeMat4:
		return 16
	}
	return 0
}
