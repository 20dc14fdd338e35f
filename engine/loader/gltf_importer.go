package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/model"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct {
	sampleRate float32
}

// gltfImporter orchestrates a full glTF/GLB import: one skeleton, every mesh as a skin
// and every animation resampled into a clip.
type gltfImporter interface {
	// Import loads a glTF/GLB file.
	//
	// Parameters:
	//   - path: the file path to the glTF or GLB file
	//
	// Returns:
	//   - *importedModel: the imported data
	//   - error: error if import fails
	Import(path string) (*importedModel, error)

	// ImportReader loads a glTF document from a reader.
	//
	// Parameters:
	//   - r: the reader providing glTF/GLB data
	//   - isGLB: true if the reader provides GLB binary data, false for glTF JSON
	//
	// Returns:
	//   - *importedModel: the imported data
	//   - error: error if import fails
	ImportReader(r io.Reader, isGLB bool) (*importedModel, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer that resamples animations at sampleRate.
func newGLTFImporter(sampleRate float32) gltfImporter {
	return &gltfImporterImpl{sampleRate: sampleRate}
}

func (imp *gltfImporterImpl) Import(path string) (*importedModel, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return imp.importFromParser(parser, path)
}

func (imp *gltfImporterImpl) ImportReader(r io.Reader, isGLB bool) (*importedModel, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r, isGLB); err != nil {
		return nil, fmt.Errorf("failed to parse from reader: %w", err)
	}
	return imp.importFromParser(parser, "")
}

// importFromParser extracts the model from a parser that has already loaded a document.
// The skin bound to the first skinned mesh (or skin 0) becomes the skeleton. Files
// without skins get a single identity root bone.
func (imp *gltfImporterImpl) importFromParser(parser gltfParser, fallbackPath string) (*importedModel, error) {
	doc := parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document after parsing")
	}

	skeletonExtractor := newGLTFSkeletonExtractor(parser)
	meshExtractor := newGLTFMeshExtractor(parser)
	animationExtractor := newGLTFAnimationExtractor(parser)

	skinIndex := -1
	if len(doc.Skins) > 0 {
		skinIndex = 0
		for i := range doc.Meshes {
			if si := skeletonExtractor.FindSkinForMesh(i); si >= 0 {
				skinIndex = si
				break
			}
		}
	}

	var bones []model.Bone
	var mapping map[int]int32
	var joints []int
	if skinIndex >= 0 {
		var err error
		bones, mapping, err = skeletonExtractor.ExtractSkeleton(skinIndex)
		if err != nil {
			return nil, fmt.Errorf("skeleton extraction failed: %w", err)
		}
		joints = doc.Skins[skinIndex].Joints
	} else {
		bones = []model.Bone{{Name: syntheticRootName, ParentIndex: -1, Local: common.IdentityTransform()}}
		mapping = map[int]int32{}
	}

	meshes := make([]*model.Mesh, 0, len(doc.Meshes))
	for i := range doc.Meshes {
		// meshes bound to another skin fall back to the root bone
		var meshJoints []int
		if si := skeletonExtractor.FindSkinForMesh(i); si == skinIndex {
			meshJoints = joints
		}
		mesh, err := meshExtractor.ExtractMesh(i, meshJoints, mapping)
		if err != nil {
			return nil, fmt.Errorf("mesh extraction failed: %w", err)
		}
		meshes = append(meshes, mesh)
	}

	clips, err := animationExtractor.ExtractAllAnimations(bones, mapping, imp.sampleRate)
	if err != nil {
		return nil, fmt.Errorf("animation extraction failed: %w", err)
	}

	return &importedModel{
		Name:       gltfExtractModelName(doc, fallbackPath),
		Bones:      bones,
		Meshes:     meshes,
		Animations: clips,
	}, nil
}

// gltfExtractModelName derives a model name from the default scene or the file name.
func gltfExtractModelName(doc *gltfDocument, fallbackPath string) string {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		if name := doc.Scenes[*doc.Scene].Name; name != "" {
			return name
		}
	}
	if fallbackPath != "" {
		base := filepath.Base(fallbackPath)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return "unnamed_model"
}
