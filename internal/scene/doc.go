// Package scene holds the state that behaviours animate: the camera, the
// light, a global rotation and the renderables with their model matrices.
//
//   - [Scene]: camera position/target, up vector, light, rotation, viewport
//   - [Renderable]: anything drawable through a [Drawer]
//   - [Spherecloud], [Lines], [Mesh]: built-in renderables
//   - [Raster]: software [Drawer] producing an RGBA frame
//   - [Canvas]: braille [Drawer] for terminals
//
// Optional capabilities are expressed as narrow interfaces ([AxisRotator],
// [TriangleSorter]) and probed with type assertions.
package scene
