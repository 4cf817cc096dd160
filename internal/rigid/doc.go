// Package rigid implements uniform-density rigid bodies built from closed
// triangle meshes and their gravitational interaction.
//
// A body is constructed once from a density and an outward-wound triangle
// list. Construction derives the volume, mass, center of mass and body-frame
// inertia tensor, and re-expresses the mesh relative to its center of mass:
//
//   - [ComputeMassProperties]: volume, mass, center of mass, inertia
//   - [New]: builds a [RigidBody] and rejects degenerate meshes
//   - [RigidBody.UpdateAuxiliaryVariables]: world-frame velocity, inertia, spin
//   - [RigidBody.UpdateState]: one momentum-first Euler step with quaternion orientation
//   - [ApplyGravity]: pairwise inverse-square force and gravity-gradient torque
//
// # Tick order
//
// A tick refreshes the auxiliary variables of every body, accumulates the
// pairwise forces and torques of every ordered pair, and only then advances
// each body:
//
//	for _, b := range bodies {
//		b.UpdateAuxiliaryVariables()
//	}
//	rigid.ApplyGravity(bodies, G)
//	for _, b := range bodies {
//		b.UpdateState(dt)
//	}
//
// # Thread Safety
//
// Bodies are plain values mutated in place. They are NOT safe for concurrent
// use; a set of bodies belongs to the single goroutine driving its ticks.
package rigid
