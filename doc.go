// Package cadimport loads various 3D and CAD file formats into one in-memory
// scene representation.
//
// The library consists of loaders registered in a loader manager and a unified
// scene structure for the loaded data. See the loader package for the registry
// and the scene package for the data model.
package cadimport
