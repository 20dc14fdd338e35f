package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/model"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gltfFixture assembles a small glTF document with a single binary buffer.
type gltfFixture struct {
	doc gltfDocument
	bin bytes.Buffer
}

func (f *gltfFixture) view(data []byte) int {
	for f.bin.Len()%4 != 0 {
		f.bin.WriteByte(0)
	}
	f.doc.BufferViews = append(f.doc.BufferViews, gltfBufferView{ByteOffset: f.bin.Len(), ByteLength: len(data)})
	f.bin.Write(data)
	return len(f.doc.BufferViews) - 1
}

func (f *gltfFixture) accessor(data []byte, componentType, count int, typ string) int {
	bv := f.view(data)
	f.doc.Accessors = append(f.doc.Accessors, gltfAccessor{BufferView: &bv, ComponentType: componentType, Count: count, Type: typ})
	return len(f.doc.Accessors) - 1
}

func (f *gltfFixture) floats(typ string, values ...float32) int {
	data := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	return f.accessor(data, gltfComponentTypeFloat, len(values)/gltfAccessorTypeComponentCount(typ), typ)
}

func (f *gltfFixture) bytes(typ string, values ...uint8) int {
	return f.accessor(values, gltfComponentTypeUnsignedByte, len(values)/gltfAccessorTypeComponentCount(typ), typ)
}

func (f *gltfFixture) shorts(values ...uint16) int {
	data := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(data[i*2:], v)
	}
	return f.accessor(data, gltfComponentTypeUnsignedShort, len(values), gltfAccessorTypeScalar)
}

// json returns the document with the buffer embedded as a data URI.
func (f *gltfFixture) json(t *testing.T) []byte {
	doc := f.doc
	doc.Buffers = []gltfBuffer{{
		URI:        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(f.bin.Bytes()),
		ByteLength: f.bin.Len(),
	}}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return data
}

// glb returns the document packed into a GLB container.
func (f *gltfFixture) glb(t *testing.T) []byte {
	doc := f.doc
	doc.Buffers = []gltfBuffer{{ByteLength: f.bin.Len()}}
	js, err := json.Marshal(doc)
	require.NoError(t, err)
	for len(js)%4 != 0 {
		js = append(js, ' ')
	}
	bin := bytes.Clone(f.bin.Bytes())
	for len(bin)%4 != 0 {
		bin = append(bin, 0)
	}

	var out bytes.Buffer
	total := 12 + 8 + len(js) + 8 + len(bin)
	require.NoError(t, binary.Write(&out, binary.LittleEndian, gltfGLBHeader{Magic: gltfGLBMagic, Version: gltfGLBVersion, Length: uint32(total)}))
	require.NoError(t, binary.Write(&out, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(js)), ChunkType: gltfGLBChunkJSON}))
	out.Write(js)
	require.NoError(t, binary.Write(&out, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(bin)), ChunkType: gltfGLBChunkBIN}))
	out.Write(bin)
	return out.Bytes()
}

func ptr[T any](v T) *T { return &v }

// walkerFixture is a two bone skin listed tip first, a three vertex body and one
// clip with a linear, a step and a cubic spline channel.
func walkerFixture() *gltfFixture {
	f := &gltfFixture{}
	f.doc.Asset = gltfAsset{Version: "2.0"}
	f.doc.Scene = ptr(0)
	f.doc.Scenes = []gltfScene{{Name: "walker", Nodes: []int{0, 2}}}
	f.doc.Nodes = []gltfNode{
		{Name: "root", Children: []int{1}, Translation: &[3]float32{0, 1, 0}},
		{Name: "tip", Translation: &[3]float32{0, 2, 0}},
		{Name: "body", Mesh: ptr(0), Skin: ptr(0)},
	}
	f.doc.Skins = []gltfSkin{{Joints: []int{1, 0}}}

	f.doc.Meshes = []gltfMesh{{Name: "body", Primitives: []gltfPrimitive{{
		Attributes: map[string]int{
			gltfAttributePosition: f.floats(gltfAccessorTypeVec3, 0, 0, 0, 1, 0, 0, 0, 1, 0),
			gltfAttributeJoints0:  f.bytes(gltfAccessorTypeVec4, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0),
			gltfAttributeWeights0: f.floats(gltfAccessorTypeVec4, 2, 0, 0, 0, 1, 0, 0, 0, 0.5, 0.5, 0, 0),
		},
		Indices: ptr(f.shorts(0, 1, 2)),
	}}}}

	s := float32(math.Sqrt2 / 2)
	f.doc.Animations = []gltfAnimation{{
		Name: "walk",
		Samplers: []gltfAnimSampler{
			{Input: f.floats(gltfAccessorTypeScalar, 0, 1), Output: f.floats(gltfAccessorTypeVec3, 0, 1, 0, 2, 1, 0)},
			{Input: f.floats(gltfAccessorTypeScalar, 0, 0.5), Output: f.floats(gltfAccessorTypeVec4, 0, 0, 0, 1, 0, 0, s, s), Interpolation: gltfInterpolationStep},
			{Input: f.floats(gltfAccessorTypeScalar, 0), Output: f.floats(gltfAccessorTypeVec3, 9, 9, 9, 2, 2, 2, 9, 9, 9), Interpolation: gltfInterpolationCubicSpline},
		},
		Channels: []gltfAnimChannel{
			{Sampler: 0, Target: gltfAnimTarget{Node: ptr(0), Path: gltfAnimPathTranslation}},
			{Sampler: 1, Target: gltfAnimTarget{Node: ptr(1), Path: gltfAnimPathRotation}},
			{Sampler: 2, Target: gltfAnimTarget{Node: ptr(1), Path: gltfAnimPathScale}},
			{Sampler: 0, Target: gltfAnimTarget{Node: ptr(2), Path: gltfAnimPathTranslation}},
		},
		Extras: gltfAnimationExtra{Events: []gltfEvent{
			{Name: "step", T: 0.75, Int: 2},
			{Name: "step", T: 0.25, String: "left"},
			{Name: "land", T: 0.9},
		}},
	}}
	return f
}

func TestLoadReaderImportsWalker(t *testing.T) {
	l := NewLoader(BackendTypeGLTF, WithSampleRate(2))
	m, err := l.LoadReader("walker", bytes.NewReader(walkerFixture().json(t)), false)
	require.NoError(t, err)

	assert.Equal(t, "walker", m.Name())
	bones := m.Skeleton().Bones
	require.Len(t, bones, 2)
	assert.Equal(t, "root", bones[0].Name)
	assert.Equal(t, int32(-1), bones[0].ParentIndex)
	assert.Equal(t, "tip", bones[1].Name)
	assert.Equal(t, int32(0), bones[1].ParentIndex)
	assert.InDelta(t, 3, m.BindPose()[1].LocalToModel.Translation.Y, 1e-5)

	mesh := m.FindMesh(common.HashString64("body"))
	require.NotNil(t, mesh)
	assert.Equal(t, m.DefaultSkin(), mesh.ID)
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
	// joint 0 is the tip node, joint 1 the root
	assert.Equal(t, []uint32{1, 1, 1, 1, 0, 1, 1, 1, 1, 0, 1, 1}, mesh.BoneIndices)
	assert.InDeltaSlice(t, []float32{1, 0, 0, 0, 1, 0, 0, 0, 0.5, 0.5, 0, 0}, mesh.Weights, 1e-6)
	assert.Len(t, mesh.Texcoord0, 6)
	assert.NotNil(t, m.Material())
}

func TestAnimationResampledRelativeToBind(t *testing.T) {
	l := NewLoader(BackendTypeGLTF, WithSampleRate(2))
	m, err := l.LoadReader("walker", bytes.NewReader(walkerFixture().json(t)), false)
	require.NoError(t, err)

	clip := m.FindAnimation(common.HashString64("walk"))
	require.NotNil(t, clip)
	assert.InDelta(t, 1, clip.Duration, 1e-6)
	assert.InDelta(t, 2, clip.SampleRate, 1e-6)

	// the channel on the non-joint body node is dropped
	require.Len(t, clip.Tracks, 2)

	root := clip.Tracks[0]
	assert.Equal(t, uint32(0), root.BoneIndex)
	assert.InDeltaSlice(t, []float32{0, 0, 0, 1, 0, 0, 2, 0, 0}, root.Positions, 1e-5)
	assert.Empty(t, root.Rotations)
	assert.Empty(t, root.Scale)

	tip := clip.Tracks[1]
	assert.Equal(t, uint32(1), tip.BoneIndex)
	assert.Empty(t, tip.Positions)
	require.Len(t, tip.Rotations, 12)
	assert.InDeltaSlice(t, []float32{0, 0, 0, 1}, tip.Rotations[0:4], 1e-5)
	s := float32(math.Sqrt2 / 2)
	assert.InDeltaSlice(t, []float32{0, 0, s, s}, tip.Rotations[4:8], 1e-5)
	assert.InDeltaSlice(t, []float32{0, 0, s, s}, tip.Rotations[8:12], 1e-5)
	assert.InDeltaSlice(t, []float32{2, 2, 2, 2, 2, 2, 2, 2, 2}, tip.Scale, 1e-5)
}

func TestAnimationEventsGroupedByName(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	m, err := l.LoadReader("walker", bytes.NewReader(walkerFixture().json(t)), false)
	require.NoError(t, err)

	clip := m.Animations()[0]
	assert.InDelta(t, DefaultSampleRate, clip.SampleRate, 1e-6)
	require.Len(t, clip.EventTracks, 2)

	step := clip.EventTracks[0]
	assert.Equal(t, common.HashString64("step"), step.EventID)
	require.Len(t, step.Keys, 2)
	assert.InDelta(t, 0.25, step.Keys[0].T, 1e-6)
	assert.Equal(t, common.HashString64("left"), step.Keys[0].String)
	assert.InDelta(t, 0.75, step.Keys[1].T, 1e-6)
	assert.Equal(t, int32(2), step.Keys[1].Integer)
	assert.Zero(t, step.Keys[1].String)

	assert.Equal(t, common.HashString64("land"), clip.EventTracks[1].EventID)
}

func TestLoadReaderGLB(t *testing.T) {
	l := NewLoader(BackendTypeGLTF, WithSampleRate(2))
	m, err := l.LoadReader("walker.glb", bytes.NewReader(walkerFixture().glb(t)), true)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Skeleton().BoneCount())
	assert.Len(t, m.Animations(), 1)
}

func TestLoadCachesByPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walker.gltf")
	require.NoError(t, os.WriteFile(path, walkerFixture().json(t), 0o644))

	mat := material.NewMaterial(material.WithName("spine"), material.WithTags("spine"))
	l := NewLoader(BackendTypeGLTF, WithMaterial(mat), WithBlendMode(model.BlendModeAdd), WithDefaultAnimation("walk"))
	first, err := l.Load(path)
	require.NoError(t, err)
	second, err := l.Load(path)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first, l.Get(path))
	assert.Len(t, l.Models(), 1)
	assert.Equal(t, mat, first.Material())
	assert.Equal(t, model.BlendModeAdd, first.BlendMode())
	assert.Equal(t, common.HashString64("walk"), first.DefaultAnimation())
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	_, err := l.Load("walker.fbx")
	assert.Error(t, err)
	assert.Nil(t, l.Get("walker.fbx"))
}

func TestDefaultAnimationMissingIsIgnored(t *testing.T) {
	l := NewLoader(BackendTypeGLTF, WithDefaultAnimation("run"))
	m, err := l.LoadReader("walker", bytes.NewReader(walkerFixture().json(t)), false)
	require.NoError(t, err)
	assert.Zero(t, m.DefaultAnimation())
}

func TestUnskinnedMeshBindsToRoot(t *testing.T) {
	f := &gltfFixture{}
	f.doc.Asset = gltfAsset{Version: "2.0"}
	f.doc.Nodes = []gltfNode{{Name: "quad", Mesh: ptr(0)}}
	f.doc.Meshes = []gltfMesh{{Primitives: []gltfPrimitive{{
		Attributes: map[string]int{
			gltfAttributePosition:  f.floats(gltfAccessorTypeVec3, 0, 0, 0, 1, 0, 0, 0, 1, 0),
			gltfAttributeTexcoord0: f.floats(gltfAccessorTypeVec2, 0, 0, 1, 0, 0, 1),
		},
	}}}}

	l := NewLoader(BackendTypeGLTF)
	m, err := l.LoadReader("quad", bytes.NewReader(f.json(t)), false)
	require.NoError(t, err)

	assert.Equal(t, "unnamed_model", m.Name())
	bones := m.Skeleton().Bones
	require.Len(t, bones, 1)
	assert.Equal(t, syntheticRootName, bones[0].Name)

	mesh := m.Meshes()[0]
	assert.Equal(t, "mesh_0", mesh.Name)
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
	assert.Equal(t, make([]uint32, 12), mesh.BoneIndices)
	assert.InDeltaSlice(t, []float32{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0}, mesh.Weights, 1e-6)
	assert.InDeltaSlice(t, []float32{0, 0, 1, 0, 0, 1}, mesh.Texcoord0, 1e-6)
}

func TestSkinWithSeveralRootsGetsSyntheticRoot(t *testing.T) {
	f := &gltfFixture{}
	f.doc.Asset = gltfAsset{Version: "2.0"}
	f.doc.Nodes = []gltfNode{
		{Name: "left"},
		{Name: "right", Children: []int{2}},
		{Name: "hand"},
	}
	f.doc.Skins = []gltfSkin{{Joints: []int{0, 1, 2}}}

	p := newGLTFParser()
	require.NoError(t, p.ParseReader(bytes.NewReader(f.json(t)), false))
	bones, mapping, err := newGLTFSkeletonExtractor(p).ExtractSkeleton(0)
	require.NoError(t, err)

	names := make([]string, len(bones))
	for i, b := range bones {
		names[i] = b.Name
	}
	assert.Equal(t, []string{syntheticRootName, "left", "right", "hand"}, names)
	assert.Equal(t, []int32{-1, 0, 0, 2}, []int32{bones[0].ParentIndex, bones[1].ParentIndex, bones[2].ParentIndex, bones[3].ParentIndex})
	assert.Equal(t, map[int]int32{0: 1, 1: 2, 2: 3}, mapping)

	_, err = model.NewSkeleton(bones)
	assert.NoError(t, err)
}

func TestParseRejectsBadVersion(t *testing.T) {
	p := newGLTFParser()
	err := p.ParseReader(bytes.NewReader([]byte(`{"asset":{"version":"1.0"}}`)), false)
	assert.ErrorIs(t, err, errInvalidGLTFVersion)

	err = p.ParseReader(bytes.NewReader([]byte("not a glb file")), true)
	assert.Error(t, err)
}

func TestDecomposeMatrix(t *testing.T) {
	// 90 degrees about Z, scale 2, translation (1, 2, 3), column-major
	tr := gltfDecomposeMatrix([16]float32{
		0, 2, 0, 0,
		-2, 0, 0, 0,
		0, 0, 2, 0,
		1, 2, 3, 1,
	})
	assert.InDelta(t, 1, tr.Translation.X, 1e-5)
	assert.InDelta(t, 3, tr.Translation.Z, 1e-5)
	assert.InDelta(t, 2, tr.Scale.X, 1e-5)
	assert.InDelta(t, 2, tr.Scale.Z, 1e-5)
	s := float32(math.Sqrt2 / 2)
	assert.InDelta(t, s, tr.Rotation.Z, 1e-5)
	assert.InDelta(t, s, tr.Rotation.W, 1e-5)
}
