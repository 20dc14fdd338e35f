package loader

import (
	"cmp"
	"fmt"
	"slices"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/model"
)

// gltfAnimationExtractorImpl is the implementation of the gltfAnimationExtractor interface.
type gltfAnimationExtractorImpl struct {
	parser gltfParser
}

// gltfAnimationExtractor resamples glTF animations into fixed rate spine clips.
type gltfAnimationExtractor interface {
	// ExtractAnimation resamples one animation at sampleRate. Keys are stored relative
	// to each bone's bind transform. Channels targeting nodes outside the skeleton are skipped.
	//
	// Parameters:
	//   - animIndex: the glTF animation index
	//   - bones: the skeleton bones, for their bind transforms
	//   - mapping: glTF node index to bone index
	//   - sampleRate: samples per second
	//
	// Returns:
	//   - *model.AnimationClip: the clip
	//   - error: error if an accessor cannot be read
	ExtractAnimation(animIndex int, bones []model.Bone, mapping map[int]int32, sampleRate float32) (*model.AnimationClip, error)

	// ExtractAllAnimations resamples every animation of the document.
	ExtractAllAnimations(bones []model.Bone, mapping map[int]int32, sampleRate float32) ([]*model.AnimationClip, error)
}

var _ gltfAnimationExtractor = &gltfAnimationExtractorImpl{}

func newGLTFAnimationExtractor(parser gltfParser) gltfAnimationExtractor {
	return &gltfAnimationExtractorImpl{parser: parser}
}

// keyedChannel is one decoded channel: key times and per key values.
type keyedChannel struct {
	bone   int32
	path   string
	step   bool
	times  []float32
	values []float32
	width  int
}

// at evaluates the channel at time t into out.
func (c *keyedChannel) at(t float32, out []float32) {
	n := len(c.times)
	i, found := slices.BinarySearch(c.times, t)
	switch {
	case found:
		copy(out, c.values[i*c.width:(i+1)*c.width])
		return
	case i == 0:
		copy(out, c.values[:c.width])
		return
	case i >= n:
		copy(out, c.values[(n-1)*c.width:n*c.width])
		return
	}
	a, b := c.values[(i-1)*c.width:i*c.width], c.values[i*c.width:(i+1)*c.width]
	if c.step {
		copy(out, a)
		return
	}
	f := (t - c.times[i-1]) / (c.times[i] - c.times[i-1])
	if c.width == 4 {
		q := common.QuatLerp(f, math32.Quat{X: a[0], Y: a[1], Z: a[2], W: a[3]}, math32.Quat{X: b[0], Y: b[1], Z: b[2], W: b[3]})
		q = common.QuatNormalize(q)
		out[0], out[1], out[2], out[3] = q.X, q.Y, q.Z, q.W
		return
	}
	for k := range c.width {
		out[k] = a[k] + (b[k]-a[k])*f
	}
}

func (e *gltfAnimationExtractorImpl) ExtractAnimation(animIndex int, bones []model.Bone, mapping map[int]int32, sampleRate float32) (*model.AnimationClip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	if animIndex < 0 || animIndex >= len(doc.Animations) {
		return nil, fmt.Errorf("animation index %d out of range", animIndex)
	}
	anim := &doc.Animations[animIndex]
	name := anim.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", animIndex)
	}

	var channels []keyedChannel
	var duration float32
	for i := range anim.Channels {
		ch, ok, err := e.readChannel(anim, i, mapping)
		if err != nil {
			return nil, fmt.Errorf("animation %q channel %d: %w", name, i, err)
		}
		if !ok {
			continue
		}
		duration = max(duration, ch.times[len(ch.times)-1])
		channels = append(channels, ch)
	}

	samples := int(math32.Ceil(duration*sampleRate)) + 1
	tracks := make(map[int32]*model.AnimationTrack)
	value := make([]float32, 4)
	for _, ch := range channels {
		tr := tracks[ch.bone]
		if tr == nil {
			tr = &model.AnimationTrack{BoneIndex: uint32(ch.bone)}
			tracks[ch.bone] = tr
		}
		bind := bones[ch.bone].Local
		for s := range samples {
			ch.at(min(float32(s)/sampleRate, duration), value)
			switch ch.path {
			case gltfAnimPathTranslation:
				d := bindRelativeTranslation(bind, math32.Vec3(value[0], value[1], value[2]))
				tr.Positions = append(tr.Positions, d.X, d.Y, d.Z)
			case gltfAnimPathRotation:
				q := common.QuatMul(common.QuatConjugate(bind.Rotation), math32.Quat{X: value[0], Y: value[1], Z: value[2], W: value[3]})
				tr.Rotations = append(tr.Rotations, q.X, q.Y, q.Z, q.W)
			case gltfAnimPathScale:
				tr.Scale = append(tr.Scale, value[0]/bind.Scale.X, value[1]/bind.Scale.Y, value[2]/bind.Scale.Z)
			}
		}
	}

	clip := &model.AnimationClip{
		Name:        name,
		Duration:    duration,
		SampleRate:  sampleRate,
		EventTracks: gltfEventTracks(anim.Extras.Events),
	}
	for _, tr := range tracks {
		clip.Tracks = append(clip.Tracks, *tr)
	}
	slices.SortFunc(clip.Tracks, func(a, b model.AnimationTrack) int {
		return cmp.Compare(a.BoneIndex, b.BoneIndex)
	})
	return clip, nil
}

// readChannel decodes a channel. ok is false for channels the skeleton does not use.
func (e *gltfAnimationExtractorImpl) readChannel(anim *gltfAnimation, i int, mapping map[int]int32) (keyedChannel, bool, error) {
	ch := &anim.Channels[i]
	if ch.Target.Node == nil {
		return keyedChannel{}, false, nil
	}
	bone, ok := mapping[*ch.Target.Node]
	if !ok {
		return keyedChannel{}, false, nil
	}

	var width int
	var accessorType string
	switch ch.Target.Path {
	case gltfAnimPathTranslation, gltfAnimPathScale:
		width, accessorType = 3, gltfAccessorTypeVec3
	case gltfAnimPathRotation:
		width, accessorType = 4, gltfAccessorTypeVec4
	default:
		// morph target weights
		return keyedChannel{}, false, nil
	}

	if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
		return keyedChannel{}, false, fmt.Errorf("invalid sampler index %d", ch.Sampler)
	}
	sampler := &anim.Samplers[ch.Sampler]
	times, err := e.parser.ReadFloats(sampler.Input, gltfAccessorTypeScalar)
	if err != nil {
		return keyedChannel{}, false, fmt.Errorf("timestamps: %w", err)
	}
	values, err := e.parser.ReadFloats(sampler.Output, accessorType)
	if err != nil {
		return keyedChannel{}, false, fmt.Errorf("values: %w", err)
	}
	if len(times) == 0 {
		return keyedChannel{}, false, nil
	}

	// cubic splines store in-tangent, value, out-tangent per key; only the value is kept
	if sampler.Interpolation == gltfInterpolationCubicSpline {
		kept := make([]float32, 0, len(times)*width)
		for k := range len(values) / (3 * width) {
			kept = append(kept, values[(3*k+1)*width:(3*k+2)*width]...)
		}
		values = kept
	}
	n := min(len(times), len(values)/width)
	if n == 0 {
		return keyedChannel{}, false, nil
	}

	return keyedChannel{
		bone:   bone,
		path:   ch.Target.Path,
		step:   sampler.Interpolation == gltfInterpolationStep,
		times:  times[:n],
		values: values[:n*width],
		width:  width,
	}, true, nil
}

func (e *gltfAnimationExtractorImpl) ExtractAllAnimations(bones []model.Bone, mapping map[int]int32, sampleRate float32) ([]*model.AnimationClip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	clips := make([]*model.AnimationClip, 0, len(doc.Animations))
	for i := range doc.Animations {
		clip, err := e.ExtractAnimation(i, bones, mapping, sampleRate)
		if err != nil {
			return nil, err
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

// bindRelativeTranslation returns d such that bind composed with a d translation lands on abs.
func bindRelativeTranslation(bind common.Transform, abs math32.Vector3) math32.Vector3 {
	d := common.QuatRotate(common.QuatConjugate(bind.Rotation), abs.Sub(bind.Translation))
	return math32.Vec3(d.X/bind.Scale.X, d.Y/bind.Scale.Y, d.Z/bind.Scale.Z)
}

// gltfEventTracks groups extras events by name into time ordered tracks.
func gltfEventTracks(events []gltfEvent) []model.EventTrack {
	var tracks []model.EventTrack
	index := make(map[uint64]int)
	for _, ev := range events {
		id := common.HashString64(ev.Name)
		i, ok := index[id]
		if !ok {
			i = len(tracks)
			index[id] = i
			tracks = append(tracks, model.EventTrack{EventID: id})
		}
		key := model.EventKey{T: ev.T, Integer: ev.Int, Float: ev.Float}
		if ev.String != "" {
			key.String = common.HashString64(ev.String)
		}
		tracks[i].Keys = append(tracks[i].Keys, key)
	}
	for i := range tracks {
		slices.SortStableFunc(tracks[i].Keys, func(a, b model.EventKey) int {
			return cmp.Compare(a.T, b.T)
		})
	}
	return tracks
}
