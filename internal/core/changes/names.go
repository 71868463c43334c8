package changes

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownChange = errors.New("unknown change name")

type entry struct {
	name   string
	mask   BitMask
	coarse bool
}

var registry = [domainCount][]entry{
	DomainGeneric: {
		{name: "Active", mask: GenericActive},
		{name: "Name", mask: GenericName},
		{name: "Parent", mask: GenericParent},
		{name: "Link", mask: GenericLink},
		{name: "All", mask: GenericAll, coarse: true},
	},
	DomainSpatial: {
		{name: "LocalPosition", mask: SpatialLocalPosition},
		{name: "LocalRotation", mask: SpatialLocalRotation},
		{name: "LocalRotationQuat", mask: SpatialLocalRotationQuat},
		{name: "LocalScale", mask: SpatialLocalScale},
		{name: "LocalTransform", mask: SpatialLocalTransform},
		{name: "WorldPosition", mask: SpatialWorldPosition},
		{name: "WorldRotation", mask: SpatialWorldRotation},
		{name: "WorldRotationQuat", mask: SpatialWorldRotationQuat},
		{name: "WorldScale", mask: SpatialWorldScale},
		{name: "WorldTransform", mask: SpatialWorldTransform},
		{name: "Velocity", mask: SpatialVelocity},
		{name: "AngularVelocity", mask: SpatialAngularVelocity},
		{name: "AllLocalNoTransform", mask: SpatialAllLocalNoTransform, coarse: true},
		{name: "AllLocal", mask: SpatialAllLocal, coarse: true},
		{name: "AllWorldNoTransform", mask: SpatialAllWorldNoTransform, coarse: true},
		{name: "AllWorld", mask: SpatialAllWorld, coarse: true},
		{name: "All", mask: SpatialAll, coarse: true},
	},
	DomainAudio: {
		{name: "Volume", mask: AudioVolume},
		{name: "Pitch", mask: AudioPitch},
		{name: "Loop", mask: AudioLoop},
		{name: "SoundName", mask: AudioSoundName},
		{name: "Play", mask: AudioPlay},
		{name: "Stop", mask: AudioStop},
		{name: "Reload", mask: AudioReload},
		{name: "All", mask: AudioAll, coarse: true},
	},
	DomainGraphics: {
		{name: "LightColor", mask: GraphicsLightColor},
		{name: "LightIntensity", mask: GraphicsLightIntensity},
		{name: "LightCutoffAngle", mask: GraphicsLightCutoffAngle},
		{name: "LightAttenuation", mask: GraphicsLightAttenuation},
		{name: "ModelFilename", mask: GraphicsModelFilename},
		{name: "ShaderFilename", mask: GraphicsShaderFilename},
		{name: "TextureFilename", mask: GraphicsTextureFilename},
		{name: "CameraFOV", mask: GraphicsCameraFOV},
		{name: "CameraZNear", mask: GraphicsCameraZNear},
		{name: "CameraZFar", mask: GraphicsCameraZFar},
		{name: "AllLighting", mask: GraphicsAllLighting, coarse: true},
		{name: "AllCamera", mask: GraphicsAllCamera, coarse: true},
		{name: "All", mask: GraphicsAll, coarse: true},
	},
	DomainGUI: {
		{name: "Sequence", mask: GUISequence},
		{name: "EditorWindow", mask: GUIEditorWindow},
		{name: "FileDialog", mask: GUIFileDialog},
		{name: "All", mask: GUIAll, coarse: true},
	},
	DomainPhysics: {
		{name: "Mass", mask: PhysicsMass},
		{name: "Friction", mask: PhysicsFriction},
		{name: "Restitution", mask: PhysicsRestitution},
		{name: "Kinematic", mask: PhysicsKinematic},
		{name: "CollisionShape", mask: PhysicsCollisionShape},
		{name: "All", mask: PhysicsAll, coarse: true},
	},
	DomainScript: {
		{name: "Filename", mask: ScriptFilename},
		{name: "Pause", mask: ScriptPause},
		{name: "Reload", mask: ScriptReload},
		{name: "All", mask: ScriptAll, coarse: true},
	},
}

// Parse resolves a qualified change name such as "Spatial.WorldPosition" or
// "Audio.All". Matching is case-insensitive.
func Parse(name string) (BitMask, error) {
	domain, flag, ok := strings.Cut(strings.TrimSpace(name), ".")
	if !ok {
		return None, fmt.Errorf("%w: %q", ErrUnknownChange, name)
	}
	for d := Domain(0); d < domainCount; d++ {
		if !strings.EqualFold(domainNames[d], domain) {
			continue
		}
		for _, e := range registry[d] {
			if strings.EqualFold(e.name, flag) {
				return e.mask, nil
			}
		}
		break
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownChange, name)
}

// ParseList resolves and ORs every name in names.
func ParseList(names []string) (BitMask, error) {
	var m BitMask
	for _, n := range names {
		f, err := Parse(n)
		if err != nil {
			return None, err
		}
		m |= f
	}
	return m, nil
}

// Name returns the qualified name of a single known flag or coarse mask.
func Name(m BitMask) (string, bool) {
	for d := Domain(0); d < domainCount; d++ {
		for _, e := range registry[d] {
			if e.mask == m {
				return domainNames[d] + "." + e.name, true
			}
		}
	}
	return "", false
}
