// Package lookup turns a free-text query into displayable emoji results.
//
// Each query costs exactly one metadata oracle call. Results carry the icon
// path a glyph will have in the icon cache whether or not the icon exists
// yet; the package never reads or writes the cache directory.
package lookup
