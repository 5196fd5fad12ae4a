package loader

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/Carmen-Shannon/oxy-outline/engine/model"
)

// maxNodeDepth bounds the node walk so a cyclic hierarchy in a malformed file terminates.
const maxNodeDepth = 64

// meshBuilder accumulates every primitive of a document into one vertex and index list.
type meshBuilder struct {
	parser   *gltfParser
	vertices []model.GPUVertex
	indices  []uint32
}

// extractMesh flattens the mesh instances of the default scene into one static mesh, with
// node transforms baked into positions and normals. A document without nodes contributes
// each of its meshes once, untransformed.
func (p *gltfParser) extractMesh() ([]model.GPUVertex, []uint32, error) {
	b := &meshBuilder{parser: p}
	doc := p.doc

	var identity [16]float32
	common.Identity(identity[:])

	if len(doc.Nodes) == 0 {
		for i := range doc.Meshes {
			if err := b.addMesh(i, identity); err != nil {
				return nil, nil, err
			}
		}
	} else {
		for _, root := range p.rootNodes() {
			if err := b.addNode(root, identity, 0); err != nil {
				return nil, nil, err
			}
		}
	}

	if len(b.indices) == 0 {
		return nil, nil, fmt.Errorf("loader: no triangles found")
	}
	return b.vertices, b.indices, nil
}

// rootNodes returns the default scene's roots, the first scene's roots, or every node that
// is nobody's child, in that order of preference.
func (p *gltfParser) rootNodes() []int {
	doc := p.doc
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 {
		return doc.Scenes[0].Nodes
	}
	child := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(child) {
				child[c] = true
			}
		}
	}
	var roots []int
	for i, isChild := range child {
		if !isChild {
			roots = append(roots, i)
		}
	}
	return roots
}

func (b *meshBuilder) addNode(index int, parent [16]float32, depth int) error {
	doc := b.parser.doc
	if index < 0 || index >= len(doc.Nodes) {
		return fmt.Errorf("%w: node %d", errAccessorRange, index)
	}
	if depth > maxNodeDepth {
		return fmt.Errorf("loader: node hierarchy deeper than %d", maxNodeDepth)
	}

	n := &doc.Nodes[index]
	local := nodeMatrix(n)
	var world [16]float32
	common.Mul4(world[:], parent[:], local[:])

	if n.Mesh != nil {
		if err := b.addMesh(*n.Mesh, world); err != nil {
			return fmt.Errorf("node %q: %w", n.Name, err)
		}
	}
	for _, c := range n.Children {
		if err := b.addNode(c, world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (b *meshBuilder) addMesh(index int, world [16]float32) error {
	doc := b.parser.doc
	if index < 0 || index >= len(doc.Meshes) {
		return fmt.Errorf("%w: mesh %d", errAccessorRange, index)
	}

	var inv, normalMat [16]float32
	if !common.Invert4(inv[:], world[:]) {
		// Degenerate transform, nothing visible to add.
		return nil
	}
	transpose(normalMat[:], inv[:])

	for i := range doc.Meshes[index].Primitives {
		if err := b.addPrimitive(&doc.Meshes[index].Primitives[i], world, normalMat); err != nil {
			return fmt.Errorf("mesh %d primitive %d: %w", index, i, err)
		}
	}
	return nil
}

func (b *meshBuilder) addPrimitive(prim *gltfPrimitive, world, normalMat [16]float32) error {
	if prim.Mode != nil && *prim.Mode != primitiveTriangles {
		// Points and lines have no surface to light or outline.
		return nil
	}
	posIndex, ok := prim.Attributes["POSITION"]
	if !ok {
		return fmt.Errorf("loader: primitive has no POSITION")
	}

	p := b.parser
	positions, count, err := p.readFloats(posIndex, "VEC3")
	if err != nil {
		return err
	}

	color := [4]float32{1, 1, 1, 1}
	if prim.Material != nil && *prim.Material >= 0 && *prim.Material < len(p.doc.Materials) {
		if pbr := p.doc.Materials[*prim.Material].PBR; pbr != nil && pbr.BaseColorFactor != nil {
			color = *pbr.BaseColorFactor
		}
	}

	base := uint32(len(b.vertices))
	verts := make([]model.GPUVertex, count)
	for i := range verts {
		pos := [3]float32{positions[i*3], positions[i*3+1], positions[i*3+2]}
		verts[i].Position = common.TransformPoint(world[:], pos)
		verts[i].Color = color
		verts[i].Tangent = [4]float32{1, 0, 0, 1}
	}

	hasNormals := false
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, n, err := p.readFloats(idx, "VEC3")
		if err != nil {
			return err
		}
		for i := 0; i < min(n, count); i++ {
			normal := [3]float32{normals[i*3], normals[i*3+1], normals[i*3+2]}
			verts[i].Normal = common.Normalize3(common.TransformDirection(normalMat[:], normal))
		}
		hasNormals = true
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, n, err := p.readFloats(idx, "VEC2")
		if err != nil {
			return err
		}
		for i := 0; i < min(n, count); i++ {
			verts[i].TexCoord = [2]float32{uvs[i*2], uvs[i*2+1]}
		}
	}
	if idx, ok := prim.Attributes["COLOR_0"]; ok {
		if err := b.applyColors(idx, verts); err != nil {
			return err
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = p.readIndices(*prim.Indices); err != nil {
			return err
		}
		for _, i := range indices {
			if int(i) >= count {
				return fmt.Errorf("%w: index %d with %d vertices", errAccessorRange, i, count)
			}
		}
	} else {
		indices = make([]uint32, count)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	indices = indices[:len(indices)/3*3]

	if !hasNormals {
		generateNormals(verts, indices)
	}

	b.vertices = append(b.vertices, verts...)
	for _, i := range indices {
		b.indices = append(b.indices, base+i)
	}
	return nil
}

// applyColors multiplies COLOR_0, VEC3 or VEC4, into the vertex colors.
func (b *meshBuilder) applyColors(index int, verts []model.GPUVertex) error {
	doc := b.parser.doc
	if index < 0 || index >= len(doc.Accessors) {
		return fmt.Errorf("%w: accessor %d", errAccessorRange, index)
	}
	accType := doc.Accessors[index].Type
	stride := componentCount(accType)
	if stride != 3 && stride != 4 {
		return fmt.Errorf("loader: COLOR_0 is %s", accType)
	}
	colors, n, err := b.parser.readFloats(index, accType)
	if err != nil {
		return err
	}
	for i := 0; i < min(n, len(verts)); i++ {
		c := colors[i*stride:]
		verts[i].Color[0] *= c[0]
		verts[i].Color[1] *= c[1]
		verts[i].Color[2] *= c[2]
		if stride == 4 {
			verts[i].Color[3] *= c[3]
		}
	}
	return nil
}

// nodeMatrix returns a node's local column-major matrix, T * R * S when no matrix is given.
func nodeMatrix(n *gltfNode) [16]float32 {
	if n.Matrix != nil {
		return *n.Matrix
	}
	t := [3]float32{}
	r := [4]float32{0, 0, 0, 1}
	s := [3]float32{1, 1, 1}
	if n.Translation != nil {
		t = *n.Translation
	}
	if n.Rotation != nil {
		r = *n.Rotation
	}
	if n.Scale != nil {
		s = *n.Scale
	}

	x, y, z, w := r[0], r[1], r[2], r[3]
	return [16]float32{
		(1 - 2*(y*y+z*z)) * s[0], (2 * (x*y + z*w)) * s[0], (2 * (x*z - y*w)) * s[0], 0,
		(2 * (x*y - z*w)) * s[1], (1 - 2*(x*x+z*z)) * s[1], (2 * (y*z + x*w)) * s[1], 0,
		(2 * (x*z + y*w)) * s[2], (2 * (y*z - x*w)) * s[2], (1 - 2*(x*x+y*y)) * s[2], 0,
		t[0], t[1], t[2], 1,
	}
}

func transpose(out, m []float32) {
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[c*4+r] = m[r*4+c]
		}
	}
}

// generateNormals computes smooth area-weighted vertex normals from the triangles.
func generateNormals(verts []model.GPUVertex, indices []uint32) {
	acc := make([][3]float32, len(verts))
	for t := 0; t+2 < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		p0, p1, p2 := verts[i0].Position, verts[i1].Position, verts[i2].Position
		e1 := [3]float32{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		e2 := [3]float32{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}
		n := [3]float32{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}
		for _, i := range [3]uint32{i0, i1, i2} {
			acc[i][0] += n[0]
			acc[i][1] += n[1]
			acc[i][2] += n[2]
		}
	}
	for i := range verts {
		n := acc[i]
		if l := math.Sqrt(float64(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])); l > 0 {
			verts[i].Normal = [3]float32{n[0] / float32(l), n[1] / float32(l), n[2] / float32(l)}
		} else {
			verts[i].Normal = [3]float32{0, 1, 0}
		}
	}
}
