package grasp

import (
	"slices"

	"github.com/akmonengine/grasp/actor"
)

// Raycast returns the nearest hit among the bodies whose CollisionLayer
// shares a bit with mask, skipping the excluded bodies.
func (w *World) Raycast(ray actor.Ray, mask uint32, exclude ...*actor.RigidBody) (actor.RayHit, bool) {
	var nearest actor.RayHit
	found := false

	test := func(body *actor.RigidBody) {
		if body.CollisionLayer&mask == 0 || slices.Contains(exclude, body) {
			return
		}
		if !body.Shape.GetAABB().IntersectRay(ray) {
			return
		}

		hit, ok := body.Raycast(ray)
		if ok && (!found || hit.Distance < nearest.Distance) {
			nearest, found = hit, true
		}
	}

	if w.SpatialGrid == nil {
		for _, body := range w.Bodies {
			test(body)
		}
		return nearest, found
	}

	w.rebuildGrid()
	for _, index := range w.SpatialGrid.QueryAABB(ray.Bounds()) {
		if index < len(w.Bodies) {
			test(w.Bodies[index])
		}
	}

	return nearest, found
}

// rebuildGrid refills the spatial grid when bodies moved since the last query
func (w *World) rebuildGrid() {
	if !w.gridDirty {
		return
	}

	w.SpatialGrid.Clear()
	for i, body := range w.Bodies {
		w.SpatialGrid.Insert(i, body.Shape.GetAABB())
	}
	w.SpatialGrid.SortCells()
	w.gridDirty = false
}
