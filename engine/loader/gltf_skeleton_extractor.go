package loader

import (
	"fmt"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/model"
)

// syntheticRootName names the bone added above skins with several root joints.
const syntheticRootName = "__root"

// gltfSkeletonExtractorImpl is the implementation of the gltfSkeletonExtractor interface.
type gltfSkeletonExtractorImpl struct {
	parser gltfParser
}

// gltfSkeletonExtractor builds spine skeletons from glTF skins.
type gltfSkeletonExtractor interface {
	// ExtractSkeleton orders the joints of a skin depth-first and converts their node
	// transforms to bones. Skins with several root joints get a synthetic identity root.
	//
	// Parameters:
	//   - skinIndex: the skin to extract
	//
	// Returns:
	//   - []model.Bone: the bones in depth-first pre-order
	//   - map[int]int32: glTF node index to bone index
	//   - error: error if the skin is invalid
	ExtractSkeleton(skinIndex int) ([]model.Bone, map[int]int32, error)

	// FindSkinForMesh returns the skin of the first node instancing meshIndex, or -1.
	FindSkinForMesh(meshIndex int) int
}

var _ gltfSkeletonExtractor = &gltfSkeletonExtractorImpl{}

func newGLTFSkeletonExtractor(parser gltfParser) gltfSkeletonExtractor {
	return &gltfSkeletonExtractorImpl{parser: parser}
}

func (e *gltfSkeletonExtractorImpl) FindSkinForMesh(meshIndex int) int {
	doc := e.parser.Document()
	if doc == nil {
		return -1
	}
	for _, node := range doc.Nodes {
		if node.Mesh != nil && *node.Mesh == meshIndex && node.Skin != nil {
			return *node.Skin
		}
	}
	return -1
}

func (e *gltfSkeletonExtractorImpl) ExtractSkeleton(skinIndex int) ([]model.Bone, map[int]int32, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, nil, fmt.Errorf("no document loaded")
	}
	if skinIndex < 0 || skinIndex >= len(doc.Skins) {
		return nil, nil, fmt.Errorf("skin index %d out of range", skinIndex)
	}
	skin := &doc.Skins[skinIndex]
	if len(skin.Joints) == 0 {
		return nil, nil, fmt.Errorf("skin %d has no joints", skinIndex)
	}

	isJoint := make(map[int]bool, len(skin.Joints))
	for _, j := range skin.Joints {
		if j < 0 || j >= len(doc.Nodes) {
			return nil, nil, fmt.Errorf("skin %d: invalid joint node %d", skinIndex, j)
		}
		isJoint[j] = true
	}
	parents := gltfNodeParents(doc)

	var roots []int
	for _, j := range skin.Joints {
		if p, ok := parents[j]; !ok || !isJoint[p] {
			roots = append(roots, j)
		}
	}

	var bones []model.Bone
	mapping := make(map[int]int32, len(skin.Joints))
	var visit func(node int, parent int32)
	visit = func(node int, parent int32) {
		n := &doc.Nodes[node]
		name := n.Name
		if name == "" {
			name = fmt.Sprintf("bone_%d", node)
		}
		index := int32(len(bones))
		mapping[node] = index
		bones = append(bones, model.Bone{
			Name:        name,
			ParentIndex: parent,
			Local:       gltfNodeTransform(n),
		})
		for _, c := range n.Children {
			if isJoint[c] {
				visit(c, index)
			}
		}
	}

	if len(roots) == 1 {
		visit(roots[0], -1)
	} else {
		bones = append(bones, model.Bone{Name: syntheticRootName, ParentIndex: -1, Local: common.IdentityTransform()})
		for _, r := range roots {
			visit(r, 0)
		}
	}
	return bones, mapping, nil
}

// gltfNodeParents maps each child node index to its parent node index.
func gltfNodeParents(doc *gltfDocument) map[int]int {
	parents := make(map[int]int)
	for i, n := range doc.Nodes {
		for _, c := range n.Children {
			parents[c] = i
		}
	}
	return parents
}

// gltfNodeTransform returns the local TRS of a node, decomposing its matrix when set.
func gltfNodeTransform(n *gltfNode) common.Transform {
	if n.Matrix != nil {
		return gltfDecomposeMatrix(*n.Matrix)
	}
	t := common.IdentityTransform()
	if n.Translation != nil {
		t.Translation = math32.Vec3(n.Translation[0], n.Translation[1], n.Translation[2])
	}
	if n.Rotation != nil {
		t.Rotation = common.QuatNormalize(math32.Quat{X: n.Rotation[0], Y: n.Rotation[1], Z: n.Rotation[2], W: n.Rotation[3]})
	}
	if n.Scale != nil {
		t.Scale = math32.Vec3(n.Scale[0], n.Scale[1], n.Scale[2])
	}
	return t
}

// gltfDecomposeMatrix splits a column-major matrix without shear into TRS.
func gltfDecomposeMatrix(m [16]float32) common.Transform {
	col := func(c int) math32.Vector3 { return math32.Vec3(m[c*4], m[c*4+1], m[c*4+2]) }
	sx, sy, sz := col(0).Length(), col(1).Length(), col(2).Length()

	safe := func(s float32) float32 {
		if s < 1e-4 {
			return 1
		}
		return s
	}
	x, y, z := col(0).MulScalar(1/safe(sx)), col(1).MulScalar(1/safe(sy)), col(2).MulScalar(1/safe(sz))

	return common.Transform{
		Translation: math32.Vec3(m[12], m[13], m[14]),
		Rotation:    gltfBasisToQuat(x, y, z),
		Scale:       math32.Vec3(sx, sy, sz),
	}
}

// gltfBasisToQuat converts orthonormal basis columns to a unit quaternion.
func gltfBasisToQuat(x, y, z math32.Vector3) math32.Quat {
	// r[row][col] with columns x, y, z
	r00, r01, r02 := x.X, y.X, z.X
	r10, r11, r12 := x.Y, y.Y, z.Y
	r20, r21, r22 := x.Z, y.Z, z.Z

	var q math32.Quat
	switch trace := r00 + r11 + r22; {
	case trace > 0:
		s := math32.Sqrt(trace+1) * 2
		q = math32.Quat{W: 0.25 * s, X: (r21 - r12) / s, Y: (r02 - r20) / s, Z: (r10 - r01) / s}
	case r00 > r11 && r00 > r22:
		s := math32.Sqrt(1+r00-r11-r22) * 2
		q = math32.Quat{W: (r21 - r12) / s, X: 0.25 * s, Y: (r01 + r10) / s, Z: (r02 + r20) / s}
	case r11 > r22:
		s := math32.Sqrt(1+r11-r00-r22) * 2
		q = math32.Quat{W: (r02 - r20) / s, X: (r01 + r10) / s, Y: 0.25 * s, Z: (r12 + r21) / s}
	default:
		s := math32.Sqrt(1+r22-r00-r11) * 2
		q = math32.Quat{W: (r10 - r01) / s, X: (r02 + r20) / s, Y: (r12 + r21) / s, Z: 0.25 * s}
	}
	return common.QuatNormalize(q)
}
