package anim

// Texture is an image reference with animatable UV placement.
type Texture struct {
	UUID     string
	Name     string
	Offset   Vec2
	Repeat   Vec2
	Rotation float64

	// Version is bumped by MarkNeedsUpdate so renderers can re-upload.
	Version int
}

// NewTexture creates a texture with unit repeat.
func NewTexture(name string) *Texture {
	return &Texture{UUID: newUUID(), Name: name, Repeat: Vec2{1, 1}}
}

// MarkNeedsUpdate flags the texture's GPU-side state as stale.
func (t *Texture) MarkNeedsUpdate() {
	t.Version++
}

// Material holds surface parameters of a node.
type Material struct {
	UUID        string
	Name        string
	Color       Color
	Opacity     float64
	Visible     bool
	Transparent bool
	Map         *Texture

	// Version is bumped by MarkNeedsUpdate so renderers can recompile.
	Version int
}

// NewMaterial creates an opaque white material.
func NewMaterial(name string) *Material {
	return &Material{
		UUID:    newUUID(),
		Name:    name,
		Color:   ColorWhite,
		Opacity: 1,
		Visible: true,
	}
}

// MarkNeedsUpdate flags the material as stale.
func (m *Material) MarkNeedsUpdate() {
	m.Version++
}

// Skeleton is an ordered bone list. Bones are ordinary nodes that usually
// also live somewhere in the scene tree.
type Skeleton struct {
	Bones []*Node
}

// NewSkeleton creates a skeleton over the given bones.
func NewSkeleton(bones ...*Node) *Skeleton {
	return &Skeleton{Bones: bones}
}

// BoneByName returns the first bone with the given name, or nil.
func (s *Skeleton) BoneByName(name string) *Node {
	for _, b := range s.Bones {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// boneIndex returns the index of the named bone or -1.
func (s *Skeleton) boneIndex(name string) int {
	for i, b := range s.Bones {
		if b.Name == name {
			return i
		}
	}
	return -1
}
