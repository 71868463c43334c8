package changes

// Slots are assigned by iota per domain. Each block ends with a count
// constant that is checked against MaxSlot at compile time.

const (
	slotGenericActive Slot = iota + 1
	slotGenericName
	slotGenericParent
	slotGenericLink

	genericSlotEnd
)

const (
	slotLocalPosition Slot = iota + 1
	slotLocalRotation
	slotLocalRotationQuat
	slotLocalScale
	slotLocalTransform
	slotWorldPosition
	slotWorldRotation
	slotWorldRotationQuat
	slotWorldScale
	slotWorldTransform
	slotVelocity
	slotAngularVelocity

	spatialSlotEnd
)

const (
	slotAudioVolume Slot = iota + 1
	slotAudioPitch
	slotAudioLoop
	slotAudioSoundName
	slotAudioPlay
	slotAudioStop
	slotAudioReload

	audioSlotEnd
)

const (
	slotLightColor Slot = iota + 1
	slotLightIntensity
	slotLightCutoffAngle
	slotLightAttenuation
	slotModelFilename
	slotShaderFilename
	slotTextureFilename
	slotCameraFOV
	slotCameraZNear
	slotCameraZFar

	graphicsSlotEnd
)

const (
	slotGUISequence Slot = iota + 1
	slotGUIEditorWindow
	slotGUIFileDialog

	guiSlotEnd
)

const (
	slotPhysicsMass Slot = iota + 1
	slotPhysicsFriction
	slotPhysicsRestitution
	slotPhysicsKinematic
	slotPhysicsCollisionShape

	physicsSlotEnd
)

const (
	slotScriptFilename Slot = iota + 1
	slotScriptPause
	slotScriptReload

	scriptSlotEnd
)

// Every domain must stay within the shared slot range.
var (
	_ [int(MaxSlot) + 1 - int(genericSlotEnd)]struct{}
	_ [int(MaxSlot) + 1 - int(spatialSlotEnd)]struct{}
	_ [int(MaxSlot) + 1 - int(audioSlotEnd)]struct{}
	_ [int(MaxSlot) + 1 - int(graphicsSlotEnd)]struct{}
	_ [int(MaxSlot) + 1 - int(guiSlotEnd)]struct{}
	_ [int(MaxSlot) + 1 - int(physicsSlotEnd)]struct{}
	_ [int(MaxSlot) + 1 - int(scriptSlotEnd)]struct{}
)

// Generic flags.
const (
	GenericActive = Generic + 1<<BitMask(slotGenericActive)
	GenericName   = Generic + 1<<BitMask(slotGenericName)
	GenericParent = Generic + 1<<BitMask(slotGenericParent)
	GenericLink   = Generic + 1<<BitMask(slotGenericLink)

	GenericAll = GenericActive | GenericName | GenericParent | GenericLink
)

// Spatial flags. Local flags describe the object relative to its parent,
// world flags describe it after composition with the parent.
const (
	SpatialLocalPosition     = Spatial + 1<<BitMask(slotLocalPosition)
	SpatialLocalRotation     = Spatial + 1<<BitMask(slotLocalRotation)
	SpatialLocalRotationQuat = Spatial + 1<<BitMask(slotLocalRotationQuat)
	SpatialLocalScale        = Spatial + 1<<BitMask(slotLocalScale)
	SpatialLocalTransform    = Spatial + 1<<BitMask(slotLocalTransform)
	SpatialWorldPosition     = Spatial + 1<<BitMask(slotWorldPosition)
	SpatialWorldRotation     = Spatial + 1<<BitMask(slotWorldRotation)
	SpatialWorldRotationQuat = Spatial + 1<<BitMask(slotWorldRotationQuat)
	SpatialWorldScale        = Spatial + 1<<BitMask(slotWorldScale)
	SpatialWorldTransform    = Spatial + 1<<BitMask(slotWorldTransform)
	SpatialVelocity          = Spatial + 1<<BitMask(slotVelocity)
	SpatialAngularVelocity   = Spatial + 1<<BitMask(slotAngularVelocity)

	SpatialAllLocalNoTransform = SpatialLocalPosition | SpatialLocalRotation | SpatialLocalRotationQuat | SpatialLocalScale
	SpatialAllLocal            = SpatialAllLocalNoTransform | SpatialLocalTransform
	SpatialAllWorldNoTransform = SpatialWorldPosition | SpatialWorldRotation | SpatialWorldRotationQuat | SpatialWorldScale
	SpatialAllWorld            = SpatialAllWorldNoTransform | SpatialWorldTransform

	SpatialAll = SpatialAllLocal | SpatialAllWorld | SpatialVelocity | SpatialAngularVelocity
)

// Audio flags.
const (
	AudioVolume    = Audio + 1<<BitMask(slotAudioVolume)
	AudioPitch     = Audio + 1<<BitMask(slotAudioPitch)
	AudioLoop      = Audio + 1<<BitMask(slotAudioLoop)
	AudioSoundName = Audio + 1<<BitMask(slotAudioSoundName)
	AudioPlay      = Audio + 1<<BitMask(slotAudioPlay)
	AudioStop      = Audio + 1<<BitMask(slotAudioStop)
	AudioReload    = Audio + 1<<BitMask(slotAudioReload)

	AudioAll = AudioVolume | AudioPitch | AudioLoop | AudioSoundName | AudioPlay | AudioStop | AudioReload
)

// Graphics flags.
const (
	GraphicsLightColor       = Graphics + 1<<BitMask(slotLightColor)
	GraphicsLightIntensity   = Graphics + 1<<BitMask(slotLightIntensity)
	GraphicsLightCutoffAngle = Graphics + 1<<BitMask(slotLightCutoffAngle)
	GraphicsLightAttenuation = Graphics + 1<<BitMask(slotLightAttenuation)
	GraphicsModelFilename    = Graphics + 1<<BitMask(slotModelFilename)
	GraphicsShaderFilename   = Graphics + 1<<BitMask(slotShaderFilename)
	GraphicsTextureFilename  = Graphics + 1<<BitMask(slotTextureFilename)
	GraphicsCameraFOV        = Graphics + 1<<BitMask(slotCameraFOV)
	GraphicsCameraZNear      = Graphics + 1<<BitMask(slotCameraZNear)
	GraphicsCameraZFar       = Graphics + 1<<BitMask(slotCameraZFar)

	GraphicsAllLighting = GraphicsLightColor | GraphicsLightIntensity | GraphicsLightCutoffAngle | GraphicsLightAttenuation
	GraphicsAllCamera   = GraphicsCameraFOV | GraphicsCameraZNear | GraphicsCameraZFar
	GraphicsAll         = GraphicsAllLighting | GraphicsAllCamera | GraphicsModelFilename | GraphicsShaderFilename | GraphicsTextureFilename
)

// GUI flags.
const (
	GUISequence     = GUI + 1<<BitMask(slotGUISequence)
	GUIEditorWindow = GUI + 1<<BitMask(slotGUIEditorWindow)
	GUIFileDialog   = GUI + 1<<BitMask(slotGUIFileDialog)

	GUIAll = GUISequence | GUIEditorWindow | GUIFileDialog
)

// Physics flags.
const (
	PhysicsMass           = Physics + 1<<BitMask(slotPhysicsMass)
	PhysicsFriction       = Physics + 1<<BitMask(slotPhysicsFriction)
	PhysicsRestitution    = Physics + 1<<BitMask(slotPhysicsRestitution)
	PhysicsKinematic      = Physics + 1<<BitMask(slotPhysicsKinematic)
	PhysicsCollisionShape = Physics + 1<<BitMask(slotPhysicsCollisionShape)

	PhysicsAll = PhysicsMass | PhysicsFriction | PhysicsRestitution | PhysicsKinematic | PhysicsCollisionShape
)

// Script flags.
const (
	ScriptFilename = Script + 1<<BitMask(slotScriptFilename)
	ScriptPause    = Script + 1<<BitMask(slotScriptPause)
	ScriptReload   = Script + 1<<BitMask(slotScriptReload)

	ScriptAll = ScriptFilename | ScriptPause | ScriptReload
)
