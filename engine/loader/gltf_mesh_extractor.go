package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-spine/engine/model"
)

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser gltfParser
}

// gltfMeshExtractor converts glTF meshes to spine skins.
type gltfMeshExtractor interface {
	// ExtractMesh merges the triangle primitives of a glTF mesh into one model.Mesh.
	// Joint indices are remapped from skin joint order to bone order; vertices
	// without joints are bound to bone 0.
	//
	// Parameters:
	//   - meshIndex: the glTF mesh index
	//   - joints: the skin's joint node indices (nil for unskinned meshes)
	//   - mapping: glTF node index to bone index
	//
	// Returns:
	//   - *model.Mesh: the mesh, named after the glTF mesh
	//   - error: error if an accessor cannot be read
	ExtractMesh(meshIndex int, joints []int, mapping map[int]int32) (*model.Mesh, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

func newGLTFMeshExtractor(parser gltfParser) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{parser: parser}
}

func (e *gltfMeshExtractorImpl) ExtractMesh(meshIndex int, joints []int, mapping map[int]int32) (*model.Mesh, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIndex)
	}
	gm := &doc.Meshes[meshIndex]

	name := gm.Name
	if name == "" {
		name = fmt.Sprintf("mesh_%d", meshIndex)
	}
	mesh := &model.Mesh{Name: name}
	for i := range gm.Primitives {
		prim := &gm.Primitives[i]
		if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
			continue
		}
		if err := e.appendPrimitive(mesh, prim, joints, mapping); err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", name, i, err)
		}
	}
	return mesh, nil
}

func (e *gltfMeshExtractorImpl) appendPrimitive(mesh *model.Mesh, prim *gltfPrimitive, joints []int, mapping map[int]int32) error {
	posIdx, ok := prim.Attributes[gltfAttributePosition]
	if !ok {
		return fmt.Errorf("missing %s", gltfAttributePosition)
	}
	positions, err := e.parser.ReadFloats(posIdx, gltfAccessorTypeVec3)
	if err != nil {
		return err
	}
	count := len(positions) / 3
	base := uint32(len(mesh.Positions) / 3)

	texcoords := make([]float32, count*2)
	if idx, ok := prim.Attributes[gltfAttributeTexcoord0]; ok {
		if texcoords, err = e.parser.ReadFloats(idx, gltfAccessorTypeVec2); err != nil {
			return err
		}
	}

	boneIndices := make([]uint32, count*4)
	weights := make([]float32, count*4)
	jIdx, hasJoints := prim.Attributes[gltfAttributeJoints0]
	wIdx, hasWeights := prim.Attributes[gltfAttributeWeights0]
	if hasJoints && hasWeights && len(joints) > 0 {
		raw, err := e.parser.ReadUints(jIdx, gltfAccessorTypeVec4)
		if err != nil {
			return err
		}
		if weights, err = e.parser.ReadFloats(wIdx, gltfAccessorTypeVec4); err != nil {
			return err
		}
		for i, j := range raw {
			if int(j) >= len(joints) {
				return fmt.Errorf("joint %d out of range (%d joints)", j, len(joints))
			}
			boneIndices[i] = uint32(mapping[joints[j]])
		}
		normalizeWeights(weights)
	} else {
		for v := range count {
			weights[v*4] = 1
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = e.parser.ReadUints(*prim.Indices, gltfAccessorTypeScalar); err != nil {
			return err
		}
	} else {
		indices = make([]uint32, count)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	mesh.Positions = append(mesh.Positions, positions...)
	mesh.Texcoord0 = append(mesh.Texcoord0, texcoords...)
	mesh.BoneIndices = append(mesh.BoneIndices, boneIndices...)
	mesh.Weights = append(mesh.Weights, weights...)
	for _, i := range indices {
		mesh.Indices = append(mesh.Indices, base+i)
	}
	return nil
}

// normalizeWeights scales each group of four weights to sum to one.
func normalizeWeights(weights []float32) {
	for v := 0; v+4 <= len(weights); v += 4 {
		sum := weights[v] + weights[v+1] + weights[v+2] + weights[v+3]
		if sum <= 0 {
			weights[v] = 1
			continue
		}
		for k := range 4 {
			weights[v+k] /= sum
		}
	}
}
