package meadow

import "github.com/go-gl/mathgl/mgl64"

// computeLocalTransform computes the local 4x4 matrix from the node's
// transform properties.
//
// Composition order:
//
//	Scale -> RotateZ -> RotateY -> RotateX -> Translate
//
// which is the matrix T * Rx * Ry * Rz * S (Euler order XYZ).
func computeLocalTransform(n *Node) mgl64.Mat4 {
	m := mgl64.Translate3D(n.Position[0], n.Position[1], n.Position[2])
	if n.Rotation[0] != 0 {
		m = m.Mul4(mgl64.HomogRotate3DX(n.Rotation[0]))
	}
	if n.Rotation[1] != 0 {
		m = m.Mul4(mgl64.HomogRotate3DY(n.Rotation[1]))
	}
	if n.Rotation[2] != 0 {
		m = m.Mul4(mgl64.HomogRotate3DZ(n.Rotation[2]))
	}
	return m.Mul4(mgl64.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2]))
}

// updateWorldTransform recomputes a node's worldTransform and worldOpacity.
// parentRecomputed indicates whether the parent was recomputed this frame,
// which forces recomputation of this node even if it's not dirty.
func updateWorldTransform(n *Node, parentTransform mgl64.Mat4, parentOpacity float64, parentRecomputed bool) {
	recompute := n.transformDirty || parentRecomputed
	if recompute {
		n.worldTransform = parentTransform.Mul4(computeLocalTransform(n))
		n.worldOpacity = parentOpacity * n.Opacity
		n.transformDirty = false
	}

	for _, child := range n.children {
		updateWorldTransform(child, n.worldTransform, n.worldOpacity, recompute)
	}
}

// --- Transform property setters ---

// SetPosition sets the node's local position and marks it dirty.
func (n *Node) SetPosition(x, y, z float64) {
	n.Position = mgl64.Vec3{x, y, z}
	n.transformDirty = true
}

// SetRotation sets the node's Euler rotation (in radians) and marks it dirty.
func (n *Node) SetRotation(x, y, z float64) {
	n.Rotation = mgl64.Vec3{x, y, z}
	n.transformDirty = true
}

// SetScale sets the node's per-axis scale and marks it dirty.
func (n *Node) SetScale(sx, sy, sz float64) {
	n.Scale = mgl64.Vec3{sx, sy, sz}
	n.transformDirty = true
}

// SetScalar sets a uniform scale on all three axes and marks it dirty.
func (n *Node) SetScalar(s float64) {
	n.SetScale(s, s, s)
}

// SetOpacity sets the node's opacity and marks it dirty.
func (n *Node) SetOpacity(a float64) {
	n.Opacity = a
	n.transformDirty = true
}

// MarkDirty marks the node's transform as dirty, forcing recomputation
// on the next frame. Useful after bulk-setting fields directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// WorldTransform returns the cached world matrix. It is current after the
// owning scene's UpdateTransforms.
func (n *Node) WorldTransform() mgl64.Mat4 {
	return n.worldTransform
}

// --- Coordinate conversion ---

// LocalToWorld converts a local-space point to world-space.
func (n *Node) LocalToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, n.worldTransform)
}

// WorldToLocal converts a world-space point to this node's local space.
func (n *Node) WorldToLocal(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, n.worldTransform.Inv())
}
