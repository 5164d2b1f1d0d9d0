// Package marker contains the domain types for fiducial marker tracking:
// camera intrinsics and their runtime scaling, anchor-relative pose math,
// the marker-to-target registry, composite scene targets, and the
// off-screen result surface used for debug visualisation.
//
// Everything here is owned by the single coordinator tick routine in
// internal/marker/pipeline; no type in this package carries a lock.
package marker
