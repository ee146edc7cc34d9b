// Package formats provides parsers for 3D asset file formats.
package formats

// Note: Wavefront OBJ parsing is in obj.go, post-parse checks in obj_validate.go
