package anim

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidTrackName is returned when a track path cannot be decomposed into
// node, object and property parts.
var ErrInvalidTrackName = errors.New("anim: invalid track name")

// Characters that cannot appear in node names of a track path.
const reservedChars = `\[\]\.:\/`

var (
	wordChar      = `[^` + reservedChars + `]`
	wordCharOrDot = `[^\[\]:\/]`

	// directory / node / .object[index] / .property[index]
	trackRe = regexp.MustCompile(`^((?:` + wordChar + `+[\/:])*)` +
		`(` + wordCharOrDot + `+)?` +
		`(?:\.(` + wordChar + `+)(?:\[(.+)\])?)?` +
		`\.(` + wordChar + `+)(?:\[(.+)\])?$`)

	reservedRe   = regexp.MustCompile(`[` + reservedChars + `]`)
	whitespaceRe = regexp.MustCompile(`\s`)
)

// Object names that may follow a dotted node name. Anything else after the
// last dot stays part of the node name.
var supportedObjectNames = [...]string{"material", "materials", "bones", "map"}

// ParsedPath is a track path split into its addressing parts. Empty strings
// mean the part is absent.
type ParsedPath struct {
	NodeName      string
	ObjectName    string
	ObjectIndex   string
	PropertyName  string
	PropertyIndex string
}

// ParseTrackName decomposes a track path such as
// "arm.bones[hand].quaternion" or ".morphTargetInfluences[smile]".
func ParseTrackName(path string) (ParsedPath, error) {
	m := trackRe.FindStringSubmatch(path)
	if m == nil {
		return ParsedPath{}, fmt.Errorf("%w: cannot parse %q", ErrInvalidTrackName, path)
	}
	p := ParsedPath{
		NodeName:      m[2],
		ObjectName:    m[3],
		ObjectIndex:   m[4],
		PropertyName:  m[5],
		PropertyIndex: m[6],
	}

	// 'foo.bar.baz': baz is the property, bar may be an object name or part
	// of the node name. Only allowlisted object names are split off.
	if lastDot := strings.LastIndexByte(p.NodeName, '.'); lastDot != -1 {
		objectName := p.NodeName[lastDot+1:]
		for _, name := range supportedObjectNames {
			if name == objectName {
				p.NodeName = p.NodeName[:lastDot]
				p.ObjectName = objectName
				break
			}
		}
	}

	if p.PropertyName == "" {
		return ParsedPath{}, fmt.Errorf("%w: no property name in %q", ErrInvalidTrackName, path)
	}
	return p, nil
}

// SanitizeNodeName replaces whitespace with underscores and strips characters
// that would break track path parsing.
func SanitizeNodeName(name string) string {
	return reservedRe.ReplaceAllString(whitespaceRe.ReplaceAllString(name, "_"), "")
}

// FindNode resolves name below root: the root itself (empty name, ".", its
// name or UUID), then a skeleton bone, then a pre-order search of the
// subtree by name or UUID. Returns nil when nothing matches.
func FindNode(root *Node, name string) *Node {
	if root == nil {
		return nil
	}
	if name == "" || name == "." || name == root.Name || name == root.UUID {
		return root
	}
	if root.Skeleton != nil {
		if bone := root.Skeleton.BoneByName(name); bone != nil {
			return bone
		}
	}

	// Iterative DFS; children pushed in reverse to keep pre-order.
	stack := make([]*Node, 0, len(root.children))
	for i := len(root.children) - 1; i >= 0; i-- {
		stack = append(stack, root.children[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Name == name || n.UUID == name {
			return n
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
	return nil
}

// binding is the accessor pair a property mixer reads from and writes to.
type binding interface {
	getValue(buf *valueBuffer, offset, size int)
	setValue(buf *valueBuffer, offset, size int)
	parsedPath() ParsedPath
	Bind()
	Unbind()
}

func newBinding(root Target, path string, parsed *ParsedPath) (binding, error) {
	switch r := root.(type) {
	case *Group:
		return newGroupBinding(r, path, parsed)
	case *Node:
		return NewPropertyBinding(r, path, parsed)
	default:
		return nil, fmt.Errorf("anim: unsupported binding root %T", root)
	}
}

type accessKind uint8

const (
	accessDirect       accessKind = iota // scalar struct field
	accessEntireArray                    // numeric slice or array copied whole
	accessArrayElement                   // one element of a slice/array, or a named sub-field
	accessFromToArray                    // value implementing ArrayValue
)

type versionKind uint8

const (
	versionNone        versionKind = iota
	versionNeedsUpdate                   // target has MarkNeedsUpdate
	versionMatrixWorld                   // target has MarkDirty
)

type needsUpdater interface{ MarkNeedsUpdate() }

type dirtyMarker interface{ MarkDirty() }

// PropertyBinding connects one track path to one property reachable from a
// root node. Resolution happens lazily on first access; when it fails the
// binding logs once and turns into a no-op.
type PropertyBinding struct {
	Path   string
	Parsed ParsedPath

	root  *Node
	node  *Node
	bound bool
	valid bool

	prop    reflect.Value
	index   int
	access  accessKind
	version versionKind

	needsUpdate needsUpdater
	dirty       dirtyMarker
}

// NewPropertyBinding creates a binding for path below root. A non-nil parsed
// path skips re-parsing.
func NewPropertyBinding(root *Node, path string, parsed *ParsedPath) (*PropertyBinding, error) {
	var p ParsedPath
	if parsed != nil {
		p = *parsed
	} else {
		var err error
		if p, err = ParseTrackName(path); err != nil {
			return nil, err
		}
	}
	return &PropertyBinding{
		Path:   path,
		Parsed: p,
		root:   root,
		node:   FindNode(root, p.NodeName),
	}, nil
}

func (b *PropertyBinding) parsedPath() ParsedPath { return b.Parsed }

// Node returns the resolved target node, or nil if unresolved.
func (b *PropertyBinding) Node() *Node { return b.node }

// Valid reports whether the last Bind resolved to a real property.
func (b *PropertyBinding) Valid() bool { return b.bound && b.valid }

// Unbind drops the resolved target; the next access binds again.
func (b *PropertyBinding) Unbind() {
	b.node = nil
	b.bound = false
	b.valid = false
	b.prop = reflect.Value{}
	b.needsUpdate = nil
	b.dirty = nil
}

// Bind resolves the path to a concrete property and accessor. It never
// fails; unresolvable paths log a diagnostic and bind to a no-op.
func (b *PropertyBinding) Bind() {
	b.bound = true
	b.valid = false

	if b.node == nil {
		b.node = FindNode(b.root, b.Parsed.NodeName)
	}
	if b.node == nil {
		logger.Warn().Str("track", b.Path).Msg("no target node found for track")
		return
	}

	target, ok := b.resolveObject()
	if !ok {
		return
	}

	prop, ok := lookupField(target, b.Parsed.PropertyName)
	if !ok {
		logger.Error().Str("track", b.Path).Str("property", b.Parsed.PropertyName).
			Msg("trying to update property for track but it wasn't found")
		return
	}

	b.version = versionNone
	b.needsUpdate = nil
	b.dirty = nil
	if target.CanAddr() {
		switch t := target.Addr().Interface().(type) {
		case needsUpdater:
			b.version = versionNeedsUpdate
			b.needsUpdate = t
		case dirtyMarker:
			b.version = versionMatrixWorld
			b.dirty = t
		}
	}

	if !b.resolveAccess(target, prop) {
		return
	}
	b.prop = prop
	b.valid = true
}

// resolveObject walks the optional object part of the path starting at the
// resolved node and returns the struct that owns the property.
func (b *PropertyBinding) resolveObject() (reflect.Value, bool) {
	node := b.node
	target := reflect.ValueOf(node).Elem()
	objectName := b.Parsed.ObjectName
	if objectName == "" {
		return target, true
	}
	objectIndex := b.Parsed.ObjectIndex

	var obj reflect.Value
	switch objectName {
	case "materials":
		if len(node.Materials) == 0 {
			logger.Error().Str("track", b.Path).Msg("can not bind to materials as node does not have a materials array")
			return reflect.Value{}, false
		}
		if objectIndex == "" {
			logger.Error().Str("track", b.Path).Msg("materials binding needs an index")
			return reflect.Value{}, false
		}
		obj = reflect.ValueOf(node.Materials)
	case "bones":
		if node.Skeleton == nil {
			logger.Error().Str("track", b.Path).Msg("can not bind to bones as node does not have a skeleton")
			return reflect.Value{}, false
		}
		obj = reflect.ValueOf(node.Skeleton.Bones)
		if i := node.Skeleton.boneIndex(objectIndex); i >= 0 {
			objectIndex = strconv.Itoa(i)
		}
	case "map":
		if node.Material == nil || node.Material.Map == nil {
			logger.Error().Str("track", b.Path).Msg("can not bind to map as node material does not have a map")
			return reflect.Value{}, false
		}
		obj = reflect.ValueOf(node.Material.Map)
	default:
		f, ok := lookupField(target, objectName)
		if !ok {
			logger.Error().Str("track", b.Path).Str("object", objectName).Msg("can not bind to object as node does not have it")
			return reflect.Value{}, false
		}
		obj = f
	}

	if objectIndex != "" {
		obj, _ = indirect(obj)
		if obj.Kind() != reflect.Slice && obj.Kind() != reflect.Array {
			logger.Error().Str("track", b.Path).Msg("object index used on a non-indexable object")
			return reflect.Value{}, false
		}
		i, err := strconv.Atoi(objectIndex)
		if err != nil || i < 0 || i >= obj.Len() {
			logger.Error().Str("track", b.Path).Str("index", objectIndex).Msg("trying to bind to objectIndex of objectName, but is undefined")
			return reflect.Value{}, false
		}
		obj = obj.Index(i)
	}

	obj, ok := indirect(obj)
	if !ok || obj.Kind() != reflect.Struct {
		logger.Error().Str("track", b.Path).Str("object", objectName).Msg("object is nil or not a struct")
		return reflect.Value{}, false
	}
	return obj, true
}

// resolveAccess picks the accessor kind for prop.
func (b *PropertyBinding) resolveAccess(target, prop reflect.Value) bool {
	if idx := b.Parsed.PropertyIndex; idx != "" {
		b.access = accessArrayElement
		if strings.EqualFold(b.Parsed.PropertyName, "morphTargetInfluences") {
			if n, ok := target.Addr().Interface().(*Node); ok {
				if n.MorphTargetDictionary == nil {
					logger.Error().Str("track", b.Path).Msg("can not bind to morphTargetInfluences because node does not have a morph target dictionary")
					return false
				}
				if i, ok := n.MorphTargetDictionary[idx]; ok {
					idx = strconv.Itoa(i)
				}
			}
		}
		switch prop.Kind() {
		case reflect.Slice, reflect.Array:
			i, err := strconv.Atoi(idx)
			if err != nil || i < 0 {
				logger.Error().Str("track", b.Path).Str("index", idx).Msg("invalid property index")
				return false
			}
			if prop.Kind() == reflect.Array && i >= prop.Len() {
				logger.Error().Str("track", b.Path).Str("index", idx).Msg("property index out of range")
				return false
			}
			b.index = i
		case reflect.Struct:
			sub, ok := lookupFieldIndex(prop, idx)
			if !ok {
				logger.Error().Str("track", b.Path).Str("index", idx).Msg("property has no such component")
				return false
			}
			b.index = sub
		default:
			logger.Error().Str("track", b.Path).Msg("property index used on a scalar property")
			return false
		}
		return true
	}

	if prop.CanAddr() {
		if _, ok := prop.Addr().Interface().(ArrayValue); ok {
			b.access = accessFromToArray
			return true
		}
	}
	switch prop.Kind() {
	case reflect.Slice, reflect.Array:
		b.access = accessEntireArray
		return true
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Bool, reflect.String:
		b.access = accessDirect
		return true
	}
	logger.Error().Str("track", b.Path).Str("type", prop.Type().String()).Msg("unsupported property type")
	return false
}

func (b *PropertyBinding) getValue(buf *valueBuffer, offset, size int) {
	if !b.bound {
		b.Bind()
	}
	if !b.valid {
		return
	}
	switch b.access {
	case accessDirect:
		readScalar(b.prop, buf, offset)
	case accessArrayElement:
		if v, ok := b.element(); ok {
			readScalar(v, buf, offset)
		}
	case accessEntireArray:
		n := min(b.prop.Len(), size)
		for i := 0; i < n; i++ {
			readScalar(b.prop.Index(i), buf, offset+i)
		}
	case accessFromToArray:
		if buf.nums != nil {
			b.prop.Addr().Interface().(ArrayValue).ToArray(buf.nums, offset)
		}
	}
}

func (b *PropertyBinding) setValue(buf *valueBuffer, offset, size int) {
	if !b.bound {
		b.Bind()
	}
	if !b.valid {
		return
	}
	switch b.access {
	case accessDirect:
		writeScalar(b.prop, buf, offset)
	case accessArrayElement:
		if v, ok := b.element(); ok {
			writeScalar(v, buf, offset)
		}
	case accessEntireArray:
		n := min(b.prop.Len(), size)
		for i := 0; i < n; i++ {
			writeScalar(b.prop.Index(i), buf, offset+i)
		}
	case accessFromToArray:
		if buf.nums != nil {
			b.prop.Addr().Interface().(ArrayValue).FromArray(buf.nums, offset)
		}
	}

	switch b.version {
	case versionNeedsUpdate:
		b.needsUpdate.MarkNeedsUpdate()
	case versionMatrixWorld:
		b.dirty.MarkDirty()
	}
}

// element returns the addressed element. Slices are re-indexed on every
// access since the caller may have replaced or shrunk them.
func (b *PropertyBinding) element() (reflect.Value, bool) {
	if b.prop.Kind() == reflect.Struct {
		return b.prop.Field(b.index), true
	}
	if b.index >= b.prop.Len() {
		return reflect.Value{}, false
	}
	return b.prop.Index(b.index), true
}

// --- reflection helpers ---

// lookupField finds an exported field of struct v by `anim` tag or by
// case-insensitive name.
func lookupField(v reflect.Value, name string) (reflect.Value, bool) {
	i, ok := lookupFieldIndex(v, name)
	if !ok {
		return reflect.Value{}, false
	}
	return v.Field(i), true
}

func lookupFieldIndex(v reflect.Value, name string) (int, bool) {
	if v.Kind() != reflect.Struct {
		return 0, false
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if tag := f.Tag.Get("anim"); tag != "" {
			if tag == name {
				return i, true
			}
			continue
		}
		if strings.EqualFold(f.Name, name) {
			return i, true
		}
	}
	return 0, false
}

// indirect follows pointers and interfaces. ok is false on a nil link.
func indirect(v reflect.Value) (reflect.Value, bool) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v, false
		}
		v = v.Elem()
	}
	return v, v.IsValid()
}

func readScalar(v reflect.Value, buf *valueBuffer, offset int) {
	if (v.Kind() == reflect.String) != buf.labels() {
		return
	}
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		buf.nums[offset] = v.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		buf.nums[offset] = float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		buf.nums[offset] = float64(v.Uint())
	case reflect.Bool:
		if v.Bool() {
			buf.nums[offset] = 1
		} else {
			buf.nums[offset] = 0
		}
	case reflect.String:
		buf.strs[offset] = v.String()
	}
}

func writeScalar(v reflect.Value, buf *valueBuffer, offset int) {
	if (v.Kind() == reflect.String) != buf.labels() || !v.CanSet() {
		return
	}
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		v.SetFloat(buf.nums[offset])
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(int64(math.Round(buf.nums[offset])))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v.SetUint(uint64(math.Max(0, math.Round(buf.nums[offset]))))
	case reflect.Bool:
		v.SetBool(buf.nums[offset] != 0)
	case reflect.String:
		v.SetString(buf.strs[offset])
	}
}
